package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	cases := map[string]struct {
		line    string
		want    []Stage
		wantErr error
	}{
		"empty": {
			line: "",
		},
		"whitespace": {
			line: "  \t ",
		},
		"single": {
			line: "ls -l /tmp",
			want: []Stage{{"ls", "-l", "/tmp"}},
		},
		"pipeline": {
			line: "echo hello | tr a-z A-Z|wc -c",
			want: []Stage{{"echo", "hello"}, {"tr", "a-z", "A-Z"}, {"wc", "-c"}},
		},
		"empty-stages-dropped": {
			line: "echo a || | cat",
			want: []Stage{{"echo", "a"}, {"cat"}},
		},
		"leading-pipe": {
			line: "| cat",
			want: []Stage{{"cat"}},
		},
		"double-quotes": {
			line: `echo "hello world" | grep "o w"`,
			want: []Stage{{"echo", "hello world"}, {"grep", "o w"}},
		},
		"single-quotes": {
			line: `echo 'a "b" c'`,
			want: []Stage{{"echo", `a "b" c`}},
		},
		"quoted-pipe": {
			line: `echo "a|b" 'c|d'`,
			want: []Stage{{"echo", "a|b", "c|d"}},
		},
		"escaped-pipe": {
			line: `echo a\|b`,
			want: []Stage{{"echo", "a|b"}},
		},
		"escaped-quote": {
			line: `echo "say \"hi\"" | cat`,
			want: []Stage{{"echo", `say "hi"`}, {"cat"}},
		},
		"redirect-tokens": {
			line: "sort < in.txt > out.txt",
			want: []Stage{{"sort", "<", "in.txt", ">", "out.txt"}},
		},
		"unterminated-double": {
			line:    `echo "hello`,
			wantErr: ErrUnterminatedQuote,
		},
		"unterminated-single": {
			line:    `echo 'hello | cat`,
			wantErr: ErrUnterminatedQuote,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			got, err := Tokenize(tc.line)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got error %v", err)
				assert.Equal(t, ParseError, KindOf(err))
				assert.Nil(t, got)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTokenizeTrailingEscape(t *testing.T) {
	_, err := Tokenize(`echo \`)
	assert.Equal(t, ParseError, KindOf(err))
}
