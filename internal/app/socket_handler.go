package app

import (
	"github.com/pstuifzand/sidediff/internal/socket"
)

// handleSocketMessage processes messages received from the Unix socket
func (a *App) handleSocketMessage(msg socket.Message) {
	a.logger.Info().Str("command", msg.Command).Str("side", msg.Side).Msg("socket message")

	var response *socket.Response
	switch msg.Command {
	case socket.CommandReload:
		if err := a.reload(msg.Side); err != nil {
			a.logger.Warn().Err(err).Msg("socket reload failed")
			a.SetStatus("Reload failed: " + err.Error())
			response = &socket.Response{Message: err.Error()}
		} else {
			response = &socket.Response{Success: true, Message: a.Status()}
		}
	case socket.CommandStatus:
		response = &socket.Response{Success: true, Message: a.changeSummary(), Status: a.statusReport()}
	default:
		a.logger.Warn().Str("command", msg.Command).Msg("unknown socket command")
		response = &socket.Response{Message: "Unknown command: " + msg.Command}
	}

	if msg.ResponseChan != nil {
		msg.ResponseChan <- response
	}
}

func (a *App) statusReport() *socket.Status {
	st := &socket.Status{
		Original: a.editor.Original().Document().Name(),
		Modified: a.editor.Modified().Document().Name(),
		UpToDate: a.editor.IsDiffUpToDate(),
	}
	if d := a.editor.Diff(); d != nil {
		st.Changes = len(d.Changes)
	}
	if m := a.editor.Model(); m != nil && a.editor.HideUnchangedRegions() {
		for _, r := range m.UnchangedRegions().Get() {
			if !r.HiddenModifiedRange().IsEmpty() {
				st.HiddenRegions++
			}
		}
	}
	return st
}
