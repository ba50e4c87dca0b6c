package session

// FilesReadyInfo records the most recent observation that a build's
// generated files are ready to fetch.
type FilesReadyInfo struct {
	ProjectName string `json:"projectName"`
	FilesReady  bool   `json:"filesReady"`
}

// DerivedState is the read-only summary computed from a session's full
// message history. It is never persisted independently; every poll or page
// load recomputes it from the stored messages.
type DerivedState struct {
	LatestPreviewURL string          `json:"latestPreviewUrl,omitempty"`
	FilesReady       *FilesReadyInfo `json:"filesReadyInfo,omitempty"`
}

// Reduce folds an ordered message history into derived state, starting from
// prev. Tool calls whose identifiers are already in consumed are skipped, so
// replaying a history that was partially folded before never double-applies
// a call; every newly accepted call is added to consumed. Malformed or
// explicitly failed tool outputs are skipped without aborting the scan.
//
// The scan always walks the whole history: a later valid observation
// overwrites an earlier one for the same field, so the result reflects the
// most recent state in the stream.
func Reduce(prev DerivedState, messages []Message, consumed *ConsumedSet) DerivedState {
	state := prev
	for _, msg := range messages {
		if msg.Role != RoleAssistant {
			continue
		}
		for _, part := range msg.Parts {
			if !part.IsTool() {
				continue
			}
			id := part.CallID(msg.ID)
			if consumed.Has(id) {
				continue
			}
			if !part.OutputReady() {
				continue
			}
			out, ok := ParseToolOutput(part.Output)
			if !ok {
				continue
			}
			consumed.Add(id)
			if url := out.BestURL(); url != "" {
				state.LatestPreviewURL = url
			}
			if out.ProjectName != "" && out.FilesReady != nil {
				state.FilesReady = &FilesReadyInfo{
					ProjectName: out.ProjectName,
					FilesReady:  *out.FilesReady,
				}
			}
		}
	}
	return state
}
