package helper_test

import (
	"testing"

	"rental/config"
	"rental/helper"

	"github.com/stretchr/testify/assert"
)

func TestRunner_UnknownAction(t *testing.T) {
	err := helper.Runner(&config.Config{}, "sideways")

	assert.ErrorIs(t, err, helper.ErrUnknownAction)
}
