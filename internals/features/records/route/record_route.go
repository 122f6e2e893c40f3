package route

import (
	"gorm.io/gorm"

	auditRepo "pesantren_backend/internals/features/audit/repository"
	auditService "pesantren_backend/internals/features/audit/service"
	"pesantren_backend/internals/features/records/controller"
	"pesantren_backend/internals/features/records/repository"
	"pesantren_backend/internals/features/records/service"
	"pesantren_backend/internals/route/action"
)

type Options struct {
	AuditEnabled       bool
	StorePlainPassword bool
}

func RecordRoutes(r *action.Router, db *gorm.DB, opts Options) {
	audit := auditService.NewAuditService(auditRepo.NewAuditRepository(db), opts.AuditEnabled)
	svc := service.NewRecordService(repository.NewRecordRepository(db), audit, opts.StorePlainPassword)
	ctrl := controller.NewRecordController(svc, audit)

	r.Get("getData", ctrl.GetData)
	r.Post("saveData", ctrl.SaveData)
	r.Get("deleteData", ctrl.DeleteData)
	r.Post("deleteData", ctrl.DeleteData)
	r.Get("getSchema", ctrl.GetSchema)
	r.Get("getAuditLog", ctrl.GetAuditLog)
}
