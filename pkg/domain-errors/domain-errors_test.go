package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Every repository backend reports failures through these types, so the
// matching rules ("errors.Is matches by code", "Wrap keeps the original code")
// are what callers rely on to tell the five failure kinds apart.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "No consent found with serviceId S1, userId U1, consentId C1"}
		s.Equal("No consent found with serviceId S1, userId U1, consentId C1", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeAlreadyExists}
		s.Equal("already_exists", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("ProvisionedThroughputExceededException")
		err := &Error{Code: CodeInternal, Message: "put consent", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeAlreadyExists, Message: "consent C1 exists"}
		err2 := &Error{Code: CodeAlreadyExists, Message: "consent C2 exists"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeAlreadyExists}
		err2 := &Error{Code: CodeVersionConflict}
		s.False(err1.Is(err2))
	})

	s.Run("does not match non-domain errors", func() {
		err1 := &Error{Code: CodeNotFound}
		s.False(err1.Is(errors.New("not found")))
	})

	s.Run("works with errors.Is through fmt wrapping", func() {
		inner := &Error{Code: CodeNotFound, Message: "original"}
		wrapped := fmt.Errorf("get consent: %w", inner)
		s.True(errors.Is(wrapped, &Error{Code: CodeNotFound}))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves original domain code when wrapping domain error", func() {
		original := New(CodeInvalidInput, "serviceId must not be blank")
		wrapped := Wrap(original, CodeInternal, "create consent")

		var domainErr *Error
		s.Require().True(errors.As(wrapped, &domainErr))
		s.Equal(CodeInvalidInput, domainErr.Code)
		s.Equal("create consent", domainErr.Message)
	})

	s.Run("uses provided code when wrapping non-domain error", func() {
		original := errors.New("RequestLimitExceeded")
		wrapped := Wrap(original, CodeInternal, "query consents")

		s.True(HasCode(wrapped, CodeInternal))
		s.True(errors.Is(wrapped, original))
	})
}

func (s *DomainErrorsSuite) TestHasCodeAndCodeOf() {
	s.Run("HasCode matches through chain", func() {
		wrapped := fmt.Errorf("outer: %w", New(CodeNotFound, "missing"))
		s.True(HasCode(wrapped, CodeNotFound))
		s.False(HasCode(wrapped, CodeInternal))
	})

	s.Run("HasCode is false for nil and plain errors", func() {
		s.False(HasCode(nil, CodeNotFound))
		s.False(HasCode(errors.New("plain"), CodeNotFound))
	})

	s.Run("CodeOf defaults to internal", func() {
		s.Equal(CodeInternal, CodeOf(errors.New("plain")))
		s.Equal(CodeAlreadyExists, CodeOf(New(CodeAlreadyExists, "dup")))
	})
}

func (s *DomainErrorsSuite) TestVersionConflict() {
	err := NewVersionConflict(2, 1)

	s.True(HasCode(err, CodeVersionConflict))
	s.Equal("Expected consent version 2, received 1, indicating state conflict", err.Error())

	var mismatch *VersionMismatch
	s.Require().True(errors.As(err, &mismatch))
	s.Equal(2, mismatch.Expected)
	s.Equal(1, mismatch.Received)
}
