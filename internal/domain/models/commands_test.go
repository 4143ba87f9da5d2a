package models

import (
	"slices"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want CommandType
		args []string
	}{
		{"/revenue 2024-12", CommandRevenue, []string{"2024-12"}},
		{"Sales", CommandRevenue, nil},
		{"  /PROFIT last ", CommandProfit, []string{"last"}},
		{"report", CommandProfit, nil},
		{"/shares", CommandOwners, nil},
		{"/bills 2024-11", CommandBills, []string{"2024-11"}},
		{"/start", CommandHelp, nil},
		{"how are sales?", CommandUnknown, []string{"are", "sales?"}},
		{"", CommandUnknown, nil},
	}

	for _, tt := range tests {
		got := ParseCommand(tt.in)
		if got.Type != tt.want {
			t.Errorf("ParseCommand(%q).Type = %s, want %s", tt.in, got.Type, tt.want)
		}
		if !slices.Equal(got.Args, tt.args) {
			t.Errorf("ParseCommand(%q).Args = %q, want %q", tt.in, got.Args, tt.args)
		}
		if got.Raw != tt.in {
			t.Errorf("ParseCommand(%q).Raw = %q", tt.in, got.Raw)
		}
	}
}

func TestInboundMessageBody(t *testing.T) {
	tests := []struct {
		name string
		msg  InboundMessage
		want string
	}{
		{"text", InboundMessage{Text: &TextContent{Body: "/costs"}}, "/costs"},
		{"button", InboundMessage{Interactive: &InteractiveContent{ButtonReply: &ReplyOption{ID: "/profit", Title: "Profit"}}}, "/profit"},
		{"list", InboundMessage{Interactive: &InteractiveContent{ListReply: &ReplyOption{ID: "/bills"}}}, "/bills"},
		{"image", InboundMessage{Type: "image"}, ""},
	}
	for _, tt := range tests {
		if got := tt.msg.Body(); got != tt.want {
			t.Errorf("%s: Body() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
