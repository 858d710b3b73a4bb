package core

import (
	"io"
	"sync"
)

// Recorder tees everything written to a session's output streams into a
// transcript writer. Output and error streams interleave in write
// order, which is also the order the operator saw them.
type Recorder struct {
	mutex      sync.Mutex
	transcript io.Writer
}

// RecordSession wraps a session's streams so all output is also written
// to transcript.
func RecordSession(sio SessionIO, transcript io.Writer) SessionIO {
	recorder := &Recorder{transcript: transcript}
	return SessionIO{
		Stdin:  sio.Stdin,
		Stdout: &recorderWriter{recorder: recorder, wrapped: sio.Stdout},
		Stderr: &recorderWriter{recorder: recorder, wrapped: sio.Stderr},
		IsPTY:  sio.IsPTY,
		Width:  sio.Width,
	}
}

type recorderWriter struct {
	recorder *Recorder
	wrapped  io.Writer
}

func (w *recorderWriter) Write(p []byte) (int, error) {
	amount, err := w.wrapped.Write(p)
	if amount > 0 {
		w.recorder.mutex.Lock()
		w.recorder.transcript.Write(p[:amount])
		w.recorder.mutex.Unlock()
	}
	return amount, err
}
