package errs

import (
	"errors"
	"fmt"
)

var ErrFragmentOnDir = errors.New("points to dir but contains a fragment (./dir#blah)")
var ErrEmptyFragment = errors.New("empty fragment (./file.md#)")

type FragmentOnDirError struct {
	Link string
}

func (e FragmentOnDirError) Error() string {
	return fmt.Sprintf("%s. Incorrect link: '%s'",
		ErrFragmentOnDir.Error(), e.Link)
}

func (e FragmentOnDirError) Is(target error) bool { return target == ErrFragmentOnDir }

func NewFragmentOnDir(link string) error {
	return FragmentOnDirError{Link: link}
}

type EmptyFragmentError struct {
	link string
}

func (e EmptyFragmentError) Error() string {
	return fmt.Sprintf("%s. Incorrect link: '%s'",
		ErrEmptyFragment.Error(), e.link)
}

func (e EmptyFragmentError) Is(target error) bool { return target == ErrEmptyFragment }

func NewEmptyFragment(link string) error {
	return EmptyFragmentError{link: link}
}
