package cli

import (
	"errors"
	"fmt"

	"tasklist-cli/internal/tasks"
)

// describeErr renders store errors as one line for stderr.
func describeErr(err error) string {
	var ve *tasks.ValidationError
	if errors.As(err, &ve) {
		return "error: " + ve.Error()
	}
	var nf *tasks.NotFoundError
	if errors.As(err, &nf) {
		return "error: " + nf.Error()
	}
	var we *tasks.StorageWriteError
	if errors.As(err, &we) {
		return fmt.Sprintf("error: could not save tasks (%s); nothing was changed: %v", we.Op, we.Err)
	}
	return "error: " + err.Error()
}
