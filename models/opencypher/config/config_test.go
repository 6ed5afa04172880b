package config_test

import (
	"testing"

	"github.com/Anon10214/cypherc/models/opencypher/config"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name  string
		conf  config.Config
		valid bool
	}{
		{"Default", config.Default(), true},
		{"Empty", config.Config{}, true},
		{"Underscore", config.Config{NodePrefix: "_n", ParamPrefix: "p_"}, true},
		{"Digit inside", config.Config{VariablePrefix: "v1x"}, true},
		{"Leading digit", config.Config{NodePrefix: "1n"}, false},
		{"Trailing digit", config.Config{NodePrefix: "n1", VariablePrefix: "n"}, false},
		{"Trailing digit in param", config.Config{ParamPrefix: "param2"}, false},
		{"Whitespace", config.Config{PathPrefix: "a b"}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.conf.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, config.ErrInvalidPrefix)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	conf := config.Config{NodePrefix: "n"}.WithDefaults()

	assert.Equal(t, "n", conf.NodePrefix)
	assert.Equal(t, config.Default().VariablePrefix, conf.VariablePrefix)
	assert.Equal(t, config.Default().ParamPrefix, conf.ParamPrefix)
}

func TestIsPrefix(t *testing.T) {
	assert.True(t, config.IsPrefix("this"))
	assert.False(t, config.IsPrefix("this1"))
	assert.False(t, config.IsPrefix(""))
	assert.True(t, config.IsIdentifier("this1"))
}
