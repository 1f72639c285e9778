// Package restydump writes every request/response pair of a resty client to a
// directory, one file per exchange. It is meant for looking at what the
// upstream actually answered when a run goes wrong.
package restydump

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

type Output interface {
	Write(id string, contents string) error
}

// DirectoryOutput writes each exchange to <dir>/<id>.txt.
type DirectoryOutput struct {
	dir string
}

// NewDirectoryOutput creates dir, clearing whatever a previous run left in it.
func NewDirectoryOutput(dir string) (DirectoryOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return DirectoryOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return DirectoryOutput{}, err
	}
	return DirectoryOutput{dir: dir}, nil
}

func (o DirectoryOutput) Write(id string, contents string) error {
	return os.WriteFile(filepath.Join(o.dir, id+".txt"), []byte(contents), 0600)
}

// Install dumps every response the client receives to output. Dump failures
// are passed to onFail and never fail the request, onFail may be nil.
func Install(client *resty.Client, output Output, onFail func(id string, err error)) {
	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := fmt.Sprintf("%04d", atomic.AddUint64(&counter, 1))
		err := output.Write(id, FormatExchange(res))
		if err != nil && onFail != nil {
			onFail(id, err)
		}
		return nil
	})
}
