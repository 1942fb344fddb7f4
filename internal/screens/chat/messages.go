package chat

import (
	"time"

	sess "github.com/pigeonic/banglachat/internal/chat"
	"github.com/pigeonic/banglachat/internal/voice"
)

// answerMsg is sent when the answering service settles a request.
type answerMsg struct {
	Response *sess.Response
	Err      error
}

// transcriptMsg carries the recognition result of capture Seq.
type transcriptMsg struct {
	Seq   int
	Event voice.Event
}

// captureEndedMsg is sent when capture Seq closes without a result.
type captureEndedMsg struct {
	Seq int
}

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time

// noticeExpiredMsg clears notice Seq if it is still shown.
type noticeExpiredMsg struct {
	Seq int
}

// spokeMsg is sent when playback of a message ends.
type spokeMsg struct {
	Err error
}

// copiedMsg is sent after a message was copied to the clipboard.
type copiedMsg struct {
	Err error
}
