package errorx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("record not found")
	err := Wrapf(cause, CodeNotFound, "查询会议 uuid=%s", "m-1")

	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "m-1")
}

func TestGetCode_PlainError(t *testing.T) {
	assert.Equal(t, CodeServerBusy, GetCode(errors.New("boom")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(CodeNotFound, "gone")))
	assert.True(t, IsNotFound(errors.New("record not found")))
	assert.False(t, IsNotFound(New(CodeConflict, "busy")))
	assert.False(t, IsNotFound(nil))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(New(CodeForbidden, "no")))
	assert.True(t, IsClientError(New(CodeConflict, "busy")))
	assert.True(t, IsClientError(New(CodeNotFound, "gone")))
	assert.False(t, IsClientError(New(CodeDBError, "db")))
	assert.False(t, IsClientError(errors.New("boom")))
}
