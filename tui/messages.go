package tui

import "newsbrief/types"

// BriefMsg is sent when a run started from the UI finishes
type BriefMsg struct {
	Brief *types.Brief
	Err   error
}
