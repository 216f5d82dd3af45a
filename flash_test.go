package passage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.inout.gg/passage/passagestrategy"
)

func TestResolveFlash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		configured  Flash
		source      any
		defaultType string
		want        Flash
		recorded    bool
	}{
		{
			name:        "configured message wins",
			configured:  Flash{Type: "warn", Message: "try again"},
			source:      "Basic realm=x",
			defaultType: "error",
			want:        Flash{Type: "warn", Message: "try again"},
			recorded:    true,
		},
		{
			name:        "string challenge becomes the message",
			configured:  Flash{},
			source:      "wrong password",
			defaultType: "error",
			want:        Flash{Type: "error", Message: "wrong password"},
			recorded:    true,
		},
		{
			name:        "structured challenge supplies type and message",
			configured:  Flash{},
			source:      passagestrategy.Challenge{Type: "info", Message: "expired"},
			defaultType: "error",
			want:        Flash{Type: "info", Message: "expired"},
			recorded:    true,
		},
		{
			name:        "structured challenge without message records nothing",
			configured:  Flash{},
			source:      passagestrategy.Challenge{Type: "info"},
			defaultType: "error",
			recorded:    false,
		},
		{
			name:        "no source and no configured message records nothing",
			configured:  Flash{Type: "warn"},
			source:      nil,
			defaultType: "error",
			recorded:    false,
		},
		{
			name:        "success side defaults the type",
			configured:  Flash{},
			source:      "welcome back",
			defaultType: "success",
			want:        Flash{Type: "success", Message: "welcome back"},
			recorded:    true,
		},
		{
			name:        "flash-shaped info is understood",
			configured:  Flash{},
			source:      Flash{Type: "note", Message: "first login"},
			defaultType: "success",
			want:        Flash{Type: "note", Message: "first login"},
			recorded:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := resolveFlash(&tt.configured, tt.source, tt.defaultType)
			assert.Equal(t, tt.recorded, ok)

			if tt.recorded {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestResolveMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fixed", resolveMessage("fixed", "ignored"))
	assert.Equal(t, "raw challenge", resolveMessage("", "raw challenge"))
	assert.Equal(
		t,
		"expired",
		resolveMessage("", passagestrategy.Challenge{Message: "expired"}),
	)
	assert.Equal(t, "", resolveMessage("", passagestrategy.Challenge{Type: "x"}))
	assert.Equal(t, "", resolveMessage("", nil))
	assert.Equal(t, "", resolveMessage("", 42))
}
