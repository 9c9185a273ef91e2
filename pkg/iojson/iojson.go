// Package iojson reads and writes the JSON documents commands exchange on
// the command line.
package iojson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// WriteWith writes obj as indented JSON to w. A marshal failure is reported
// on ew as a JSON error object.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		msg, _ := json.Marshal(err.Error())
		_, werr := fmt.Fprintf(ew, `{"message":"marshal output","data":{"json_error":%s}}`+"\n", msg)
		return errors.Join(err, werr)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr].
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
