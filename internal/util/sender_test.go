package util

import "testing"

func TestParseSender(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantAddr string
	}{
		{`"Alice Example" <alice@example.com>`, "Alice Example", "alice@example.com"},
		{`Bob <bob@example.com>`, "Bob", "bob@example.com"},
		{`  "Carol"   <carol@example.com>  `, "Carol", "carol@example.com"},
		{`<dave@example.com>`, "", "dave@example.com"},
		{`eve@example.com`, "", "eve@example.com"},
		{`User+Tag@Example.COM`, "", "User+Tag@Example.COM"}, // no normalization
		{`broken <frank@example.com`, "", "broken <frank@example.com"},
		{`=?UTF-8?B?SsO8cmdlbg==?= <jurgen@example.de>`, "Jürgen", "jurgen@example.de"},
		{`=?ISO-8859-1?Q?Andr=E9?= <andre@example.fr>`, "André", "andre@example.fr"},
		{``, "", ""},
	}
	for _, tc := range tests {
		got := ParseSender(tc.in)
		if got.DisplayName != tc.wantName || got.Address != tc.wantAddr {
			t.Errorf("ParseSender(%q) = (%q, %q); want (%q, %q)",
				tc.in, got.DisplayName, got.Address, tc.wantName, tc.wantAddr)
		}
	}
}

func TestDecodeDisplayName_Undecodable(t *testing.T) {
	in := "=?x-unknown-charset?Q?abc?="
	if got := DecodeDisplayName(in); got != in {
		t.Fatalf("DecodeDisplayName(%q) = %q; want input unchanged", in, got)
	}
}
