package fill

import "errors"

// ErrAborted reports that the filler interrupted the prompt flow.
var ErrAborted = errors.New("fill: aborted by user")
