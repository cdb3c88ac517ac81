package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain ascii", "Wound Care", "Wound Care"},
		{"named entity", "Bath &amp; Body", "Bath & Body"},
		{"double encoded", "Bath &amp;amp; Body", "Bath & Body"},
		{"numeric entity", "Nurse&#39;s Station", "Nurse's Station"},
		{"hex entity", "Caf&#xe9;", "Café"},
		{"unicode escape", `Caf\u00e9`, "Café"},
		{"escaped entity", `Bath \u0026amp; Body`, "Bath & Body"},
		{"surrogate pair", `Gloves \ud83e\udde4`, "Gloves 🧤"},
		{"bare ampersand", "AT&T Supplies", "AT&T Supplies"},
		{"empty", "", ""},
		{"surrounding whitespace", "  Wound &amp; Care ", "Wound & Care"},
		{"encoded whitespace", "&#32;Linens&#9;", "Linens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.in))
		})
	}
}

func TestDecode_Idempotent(t *testing.T) {
	inputs := []string{
		"Wound Care",
		"Bath &amp;amp;amp; Body",
		"&lt;script&gt;",
		`\u003cb\u003e`,
		"&#0;",
		`\ud83e`,
		"  Linens &amp; Bedding  ",
		"100% &quot;sterile&quot;",
		"&amp;#32;Gauze",
	}

	for _, in := range inputs {
		once := Decode(in)
		assert.Equal(t, once, Decode(once), "input %q", in)
		assert.Equal(t, Key(in), Key(Key(in)), "input %q", in)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, Uncategorized, Key(""))
	assert.Equal(t, Uncategorized, Key("   "))
	assert.Equal(t, "Incontinence & Skin", Key(" Incontinence &amp; Skin "))
}
