package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the parent of every field validation failure.
// Match it with errors.Is to treat all malformed input the same way.
var ErrValidation = errors.New("validation error")

// Field validation failures. Each wraps ErrValidation.
var (
	ErrInvalidName  = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrInvalidPhone = fmt.Errorf("%w: invalid phone number format, expected 10 digits", ErrValidation)
	ErrInvalidDate  = fmt.Errorf("%w: invalid date format, use DD.MM.YYYY", ErrValidation)
)

// ErrNameSeparator is returned when a name holds a character the flat file
// uses as a separator. Empty-name validation stays in NewName; this check
// guards storage.
var ErrNameSeparator = fmt.Errorf("%w: name cannot contain commas or line breaks", ErrValidation)

// ErrNotFound is returned when no record exists under the requested name.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when adding a contact whose name is taken.
var ErrAlreadyExists = errors.New("record already exists")

// ErrPhoneNotFound is returned by EditPhone when the old number is not on the record.
var ErrPhoneNotFound = errors.New("phone number not found")

// ErrDuplicateBirthday is returned by AddBirthday when a birthday is already set.
// EditBirthday is the only way to overwrite it.
var ErrDuplicateBirthday = errors.New("birthday already exists")

// ErrStorage is returned by stores when the directory cannot be read or written.
var ErrStorage = errors.New("storage failure")
