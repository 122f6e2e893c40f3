package route

import (
	"pesantren_backend/internals/features/files/signature/controller"
	"pesantren_backend/internals/features/files/signature/service"
	"pesantren_backend/internals/route/action"
)

func SignatureRoutes(r *action.Router, signer service.Signer) {
	ctrl := controller.NewSignatureController(signer)

	r.Post("file-signature", ctrl.FileSignature)
	r.Post("getFileSignature", ctrl.FileSignature)
}
