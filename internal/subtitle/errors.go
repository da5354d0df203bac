package subtitle

import "errors"

// ErrUnparseable indicates the payload is not recognizable as the parser's
// format at all (not merely empty of cues). The orchestrator treats this the
// same as an empty result: mark the source failed and try the next one.
var ErrUnparseable = errors.New("unparseable caption payload")
