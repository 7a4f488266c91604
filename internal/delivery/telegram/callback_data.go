package telegram

import (
	"strings"
)

// Callback action constants.
const (
	actionGame = "game"
)

// Game sub-actions.
const (
	gameHint    = "hint"
	gameDismiss = "dismiss"
	gameRestart = "restart"
	gamePlay    = "play"
	gameGuess   = "guess"
)

// maxCallbackData is Telegram's limit on callback data in bytes.
const maxCallbackData = 64

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	if data == "" {
		return callbackData{Raw: data}
	}

	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildGameCallback builds callback data for an in-game button.
func buildGameCallback(subAction string) string {
	return callbackData{
		Action: actionGame,
		Params: []string{subAction},
	}.encode()
}

// buildGuessCallback builds callback data for an answer option. It reports false
// when the country name does not fit into the callback data.
func buildGuessCallback(country string) (string, bool) {
	data := callbackData{
		Action: actionGame,
		Params: []string{gameGuess, country},
	}.encode()
	return data, len(data) <= maxCallbackData
}
