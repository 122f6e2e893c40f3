package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"pesantren_backend/internals/features/files/signature/service"
	helper "pesantren_backend/internals/helpers"
)

type SignatureController struct {
	Signer service.Signer
}

func NewSignatureController(signer service.Signer) *SignatureController {
	return &SignatureController{Signer: signer}
}

// POST /api?action=file-signature  body: params yang mau ditandatangani
func (sc *SignatureController) FileSignature(c *fiber.Ctx) error {
	body := map[string]any{}
	if err := helper.DecodeBody(c, &body); err != nil {
		return err
	}

	out, err := sc.Signer.Sign(c.UserContext(), body)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"provider": sc.Signer.Provider(),
		"actor":    helper.GetActor(c),
	}).Debug("upload signature dibuat")
	return helper.JsonData(c, out)
}
