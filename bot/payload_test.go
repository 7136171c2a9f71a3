package bot

import "testing"

func TestParseCallback(t *testing.T) {
	tests := []struct {
		data      string
		wantKind  CallbackKind
		wantPhone string
	}{
		{"show_list", CallbackShowList, ""},
		{"add_account", CallbackAddPrompt, ""},
		{"refresh", CallbackRefresh, ""},
		{"help", CallbackHelp, ""},
		{"cancel", CallbackCancel, ""},
		{"delete_081234567890", CallbackDeleteRequest, "081234567890"},
		{"confirm_delete_081234567890", CallbackDeleteConfirm, "081234567890"},
		{"bogus", CallbackUnknown, ""},
		{"", CallbackUnknown, ""},
		// confirm_delete_ must not be swallowed by the delete_ prefix
		{"confirm_delete_08", CallbackDeleteConfirm, "08"},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			cb := ParseCallback(tt.data)
			if cb.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", cb.Kind, tt.wantKind)
			}
			if cb.Phone != tt.wantPhone {
				t.Errorf("Phone = %q, want %q", cb.Phone, tt.wantPhone)
			}
		})
	}
}

func TestDeleteConfirmRoundTrip(t *testing.T) {
	// The phone encoded into the confirm button must survive a parse round
	// trip; it is the only state the delete flow carries.
	kb := confirmDeleteKeyboard("081234567890")
	confirm := kb.InlineKeyboard[0][0]
	cb := ParseCallback(*confirm.CallbackData)
	if cb.Kind != CallbackDeleteConfirm || cb.Phone != "081234567890" {
		t.Errorf("confirm payload round trip broken: %+v", cb)
	}
	cancel := kb.InlineKeyboard[0][1]
	if ParseCallback(*cancel.CallbackData).Kind != CallbackCancel {
		t.Errorf("cancel payload round trip broken")
	}
}
