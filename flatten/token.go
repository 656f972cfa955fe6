package flatten

import (
	"io"
	"sync"
)

// Kind enumerates JSON token kinds.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token struct {
	Kind   Kind
	String string // Stored for key/string tokens.
	Number string // Stored as text to preserve numeric fidelity.
	Bool   bool
	Offset int64
}

// Source abstracts over polymorphic JSON inputs. Flatten consumes tokens
// rather than a decoded map so that object key order survives.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// Driver converts JSON input into a Source via a pluggable SPI. The default
// implementation is backed by goccy/go-json and may be swapped with SetDriver.
type Driver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	driverMu      sync.RWMutex
	currentDriver Driver = gojsonDriver{}
)

// SetDriver replaces the global JSON driver; nil values are ignored.
func SetDriver(d Driver) {
	if d == nil {
		return
	}
	driverMu.Lock()
	currentDriver = d
	driverMu.Unlock()
}

// UseDefaultDriver restores the default goccy/go-json-backed driver.
func UseDefaultDriver() {
	driverMu.Lock()
	currentDriver = gojsonDriver{}
	driverMu.Unlock()
}

func getDriver() Driver {
	driverMu.RLock()
	d := currentDriver
	driverMu.RUnlock()
	return d
}

// JSONReader wraps an io.Reader as a JSON Source using the current driver.
func JSONReader(r io.Reader) Source { return getDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source using the current driver.
func JSONBytes(b []byte) Source { return getDriver().NewBytes(b) }
