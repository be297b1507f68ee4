package memgraph

import (
	"errors"
	"fmt"
)

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrSelfLoop         = errors.New("self-loop")
	ErrDuplicateNode    = errors.New("duplicate node")
	ErrDanglingEdge     = errors.New("edge references unknown node")
	ErrAsymmetricEdge   = errors.New("edge has no reverse edge")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// NotFoundError is returned when an operation names a node the graph does not hold.
type NotFoundError struct {
	ID any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("node %v: %s", e.ID, ErrNodeNotFound)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNodeNotFound
}

type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s graph document: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s graph document: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type EncodeError struct {
	Format string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s graph document: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// ValidationError reports a loaded document that breaks a graph invariant.
// Neighbor is nil when the problem is with the node itself.
type ValidationError struct {
	ID       any
	Neighbor any
	Err      error
}

func (e *ValidationError) Error() string {
	if e.Neighbor == nil {
		return fmt.Sprintf("invalid graph document: node %v: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("invalid graph document: edge %v-%v: %v", e.ID, e.Neighbor, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
