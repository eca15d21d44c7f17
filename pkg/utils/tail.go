package utils

import (
	"bufio"
	"errors"
	"io"
	"os"
	"time"
)

// TailUntilIdle copies lines from the file at path to out until no new data
// has appeared for the idle duration. It is used to surface an engine log
// after the engine process has exited, when late buffered writes may still
// be flushing.
func TailUntilIdle(path string, out io.Writer, idle, pollEvery time.Duration) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	reader := bufio.NewReader(f)
	quietSince := time.Now()

	for {
		line, readErr := reader.ReadBytes('\n')
		if len(line) > 0 {
			if _, err := out.Write(line); err != nil {
				return err
			}
			quietSince = time.Now()
		}

		switch {
		case readErr == nil:
		case errors.Is(readErr, io.EOF):
			if time.Since(quietSince) > idle {
				return nil
			}
			time.Sleep(pollEvery)
		default:
			return readErr
		}
	}
}
