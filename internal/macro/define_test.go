package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandDefines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "definition then use",
			in:   "#globaldefine VAR \"content\"\nVAR",
			want: "content",
		},
		{
			name: "use before definition",
			in:   "VAR\n#globaldefine VAR \"content\"\n",
			want: "content\n",
		},
		{
			name: "substring match is not word aware",
			in:   "#globaldefine ID \"42\"\nWIDTH ID\n",
			want: "W42TH 42\n",
		},
		{
			name: "later define sees earlier substitution",
			in:   "#globaldefine A \"B\"\n#globaldefine B \"x\"\nA B\n",
			want: "x x\n",
		},
		{
			name: "blank lines around definitions are kept",
			in:   "top\n\n#globaldefine N \"1\"\n\nN\n",
			want: "top\n\n\n1\n",
		},
		{
			name: "unquoted value is not a directive",
			in:   "#globaldefine N 1\nN\n",
			want: "#globaldefine N 1\nN\n",
		},
		{
			name: "empty quoted value",
			in:   "#globaldefine GONE \"\"\na GONE b\n",
			want: "a  b\n",
		},
		{
			name: "value keeps inner quotes and spaces",
			in:   "#globaldefine Q \"say \"hi\" now\"\nQ\n",
			want: "say \"hi\" now\n",
		},
		{
			name: "indented directive is plain text",
			in:   " #globaldefine N \"1\"\nN\n",
			want: " #globaldefine N \"1\"\nN\n",
		},
		{
			name: "no defines",
			in:   "nothing here\n",
			want: "nothing here\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandDefines(tt.in))
		})
	}
}

func TestParseDefines_OrderAndStripping(t *testing.T) {
	rest, defs := ParseDefines("#globaldefine B \"2\"\nbody\n#globaldefine A \"1\"\r\n")

	assert.Equal(t, "body\n", rest)
	assert.Equal(t, []Define{{Name: "B", Value: "2"}, {Name: "A", Value: "1"}}, defs)
}
