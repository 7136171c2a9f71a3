package bot

import "strings"

// Callback payload namespace. The two-step delete confirmation carries its
// state (the target phone) inside the payload itself, so the dispatcher
// stays stateless and every transition is a single self-contained round
// trip.
const (
	payloadShowList      = "show_list"
	payloadAddAccount    = "add_account"
	payloadRefresh       = "refresh"
	payloadHelp          = "help"
	payloadCancel        = "cancel"
	payloadDelete        = "delete_"
	payloadConfirmDelete = "confirm_delete_"
)

// CallbackKind tags a parsed button payload.
type CallbackKind int

const (
	CallbackUnknown CallbackKind = iota
	CallbackShowList
	CallbackAddPrompt
	CallbackRefresh
	CallbackHelp
	CallbackCancel
	CallbackDeleteRequest
	CallbackDeleteConfirm
)

// String returns the metric label for the kind.
func (k CallbackKind) String() string {
	switch k {
	case CallbackShowList:
		return "show_list"
	case CallbackAddPrompt:
		return "add_account"
	case CallbackRefresh:
		return "refresh"
	case CallbackHelp:
		return "help"
	case CallbackCancel:
		return "cancel"
	case CallbackDeleteRequest:
		return "delete"
	case CallbackDeleteConfirm:
		return "confirm_delete"
	default:
		return "unknown"
	}
}

// Callback is the tagged variant of a button payload. Phone is set only for
// the delete request/confirm kinds.
type Callback struct {
	Kind  CallbackKind
	Phone string
}

// ParseCallback decodes a raw payload string. confirm_delete_ must be
// checked before delete_ since the former is a suffix match of the latter.
func ParseCallback(data string) Callback {
	switch {
	case data == payloadShowList:
		return Callback{Kind: CallbackShowList}
	case data == payloadAddAccount:
		return Callback{Kind: CallbackAddPrompt}
	case data == payloadRefresh:
		return Callback{Kind: CallbackRefresh}
	case data == payloadHelp:
		return Callback{Kind: CallbackHelp}
	case data == payloadCancel:
		return Callback{Kind: CallbackCancel}
	case strings.HasPrefix(data, payloadConfirmDelete):
		return Callback{Kind: CallbackDeleteConfirm, Phone: strings.TrimPrefix(data, payloadConfirmDelete)}
	case strings.HasPrefix(data, payloadDelete):
		return Callback{Kind: CallbackDeleteRequest, Phone: strings.TrimPrefix(data, payloadDelete)}
	default:
		return Callback{Kind: CallbackUnknown}
	}
}
