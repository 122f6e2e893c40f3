package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	auditService "pesantren_backend/internals/features/audit/service"
	"pesantren_backend/internals/features/records/registry"
	"pesantren_backend/internals/features/records/repository"
	"pesantren_backend/internals/features/records/service"
	helper "pesantren_backend/internals/helpers"
	"pesantren_backend/internals/helpers/apperror"
)

const (
	defaultPerPage = 50
	maxPerPage     = 500
)

type RecordController struct {
	Service *service.RecordService
	Audit   *auditService.AuditService
}

func NewRecordController(svc *service.RecordService, audit *auditService.AuditService) *RecordController {
	return &RecordController{Service: svc, Audit: audit}
}

func entityParam(c *fiber.Ctx) string {
	return strings.TrimSpace(c.Query("type"))
}

func meta(c *fiber.Ctx) service.Meta {
	rid, _ := c.Locals("reqid").(string)
	return service.Meta{RequestID: rid, Actor: helper.GetActor(c)}
}

// GET /api?action=getData&type=santri[&id=1][&page=1&per_page=50]
func (rc *RecordController) GetData(c *fiber.Ctx) error {
	entity := entityParam(c)
	if _, ok := registry.Lookup(entity); !ok {
		return apperror.InvalidType(entity)
	}

	id, hasID, err := repository.ParseID(c.Query("id"))
	if err != nil {
		return apperror.InvalidValue("id", err)
	}
	if hasID {
		row, err := rc.Service.Get(c.UserContext(), entity, id)
		if err != nil {
			return err
		}
		return helper.JsonData(c, row)
	}

	var page *repository.Page
	if p := helper.ResolveOptionalPaging(c, defaultPerPage, maxPerPage); p != nil {
		page = &repository.Page{Limit: p.Limit, Offset: p.Offset}
	}
	rows, err := rc.Service.List(c.UserContext(), entity, page)
	if err != nil {
		return err
	}
	return helper.JsonData(c, rows)
}

// POST /api?action=saveData&type=santri  body: record (dengan id = update)
func (rc *RecordController) SaveData(c *fiber.Ctx) error {
	entity := entityParam(c)
	if _, ok := registry.Lookup(entity); !ok {
		return apperror.InvalidType(entity)
	}

	record := repository.Record{}
	if err := helper.DecodeBody(c, &record); err != nil {
		return err
	}
	// body "null" → map nil
	if record == nil {
		record = repository.Record{}
	}
	// id di query ikut dipakai kalau body tidak membawa id
	if _, ok := record[registry.IDColumn]; !ok && c.Query("id") != "" {
		record[registry.IDColumn] = c.Query("id")
	}

	res, err := rc.Service.Save(c.UserContext(), entity, record, meta(c))
	if err != nil {
		return err
	}
	return helper.JsonSuccess(c, fiber.Map{
		"id":       res.ID,
		"created":  res.Created,
		"affected": res.Affected,
	})
}

// GET|POST /api?action=deleteData&type=santri&id=1  (id boleh di body)
func (rc *RecordController) DeleteData(c *fiber.Ctx) error {
	entity := entityParam(c)
	if _, ok := registry.Lookup(entity); !ok {
		return apperror.InvalidType(entity)
	}

	rawID := any(c.Query("id"))
	if c.Query("id") == "" && c.Method() == fiber.MethodPost {
		var body struct {
			ID any `json:"id"`
		}
		if err := helper.DecodeBody(c, &body); err != nil {
			return err
		}
		rawID = body.ID
	}
	id, hasID, err := repository.ParseID(rawID)
	if err != nil {
		return apperror.InvalidValue("id", err)
	}
	if !hasID {
		return apperror.BadRequest("id wajib diisi")
	}

	affected, err := rc.Service.Delete(c.UserContext(), entity, id, meta(c))
	if err != nil {
		return err
	}
	return helper.JsonSuccess(c, fiber.Map{"affected": affected})
}

// GET /api?action=getSchema[&type=santri]
func (rc *RecordController) GetSchema(c *fiber.Ctx) error {
	entity := entityParam(c)
	if entity == "" {
		return helper.JsonData(c, registry.Export())
	}
	sch, err := rc.Service.Schema(entity)
	if err != nil {
		return err
	}
	return helper.JsonData(c, sch)
}

// GET /api?action=getAuditLog&type=santri&id=1
func (rc *RecordController) GetAuditLog(c *fiber.Ctx) error {
	entity := entityParam(c)
	if _, ok := registry.Lookup(entity); !ok {
		return apperror.InvalidType(entity)
	}
	id, hasID, err := repository.ParseID(c.Query("id"))
	if err != nil {
		return apperror.InvalidValue("id", err)
	}
	if !hasID {
		return apperror.BadRequest("id wajib diisi")
	}

	logs, err := rc.Audit.History(c.UserContext(), entity, id, c.QueryInt("limit", 50))
	if err != nil {
		return apperror.StoreError(err)
	}
	return helper.JsonData(c, logs)
}
