package validation_test

import (
	"net/http"

	apperrors "github.com/frahmantamala/navguard/internal"
	"github.com/frahmantamala/navguard/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type pathRequest struct {
	Path  string `json:"path" validate:"required,startswith=/,max=16"`
	Mode  string `json:"mode" validate:"omitempty,oneof=any most_specific"`
	Extra string `json:"-"`
}

var _ = Describe("Struct", func() {
	It("should accept a valid value", func() {
		Expect(validation.Struct(pathRequest{Path: "/payments"}, apperrors.ErrCodeInvalidPath)).To(BeNil())
	})

	It("should report every failing field by its json name", func() {
		appErr := validation.Struct(pathRequest{Path: "payments", Mode: "first"}, apperrors.ErrCodeInvalidPath)
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(appErr.Code).To(Equal(apperrors.ErrCodeValidationFailed))

		details, ok := appErr.Details.(apperrors.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.Errors).To(HaveLen(2))
		Expect(details.Errors[0].Field).To(Equal("path"))
		Expect(details.Errors[0].Message).To(Equal(`path must start with "/"`))
		Expect(details.Errors[0].Code).To(Equal(string(apperrors.ErrCodeInvalidPath)))
		Expect(details.Errors[1].Field).To(Equal("mode"))
	})

	It("should use the first field message as the error text", func() {
		appErr := validation.Struct(pathRequest{}, apperrors.ErrCodeInvalidPath)
		Expect(appErr.Error()).To(Equal("path is required"))
	})
})

var _ = Describe("Var", func() {
	It("should validate a single value", func() {
		Expect(validation.Var("access_denied_path", "/denied", "startswith=/", apperrors.ErrCodeInvalidPath)).To(BeNil())

		appErr := validation.Var("access_denied_path", "denied", "startswith=/", apperrors.ErrCodeInvalidPath)
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.GetDetailedMessage()).To(Equal(`access_denied_path must start with "/"`))
	})
})
