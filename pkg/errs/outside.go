package errs

import (
	"errors"
	"fmt"
)

var ErrOutsideBook = errors.New("link resolves outside the book directory")

type OutsideBookError struct {
	Link string
}

func NewOutsideBook(link string) OutsideBookError {
	return OutsideBookError{Link: link}
}

func (e OutsideBookError) Error() string {
	return fmt.Sprintf("%s. Incorrect link: '%s'", ErrOutsideBook.Error(), e.Link)
}

func (e OutsideBookError) Is(target error) bool { return target == ErrOutsideBook }
