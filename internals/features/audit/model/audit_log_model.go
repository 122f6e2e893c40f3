package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type AuditLogModel struct {
	ID        int64          `gorm:"column:audit_log_id;primaryKey;autoIncrement" json:"audit_log_id"`
	RequestID *uuid.UUID     `gorm:"column:audit_log_request_id" json:"audit_log_request_id,omitempty"`
	Entity    string         `gorm:"column:audit_log_entity;not null" json:"audit_log_entity"`
	Action    string         `gorm:"column:audit_log_action;not null" json:"audit_log_action"`
	RecordID  *int64         `gorm:"column:audit_log_record_id" json:"audit_log_record_id,omitempty"`
	Actor     string         `gorm:"column:audit_log_actor" json:"audit_log_actor"`
	Payload   datatypes.JSON `gorm:"column:audit_log_payload" json:"audit_log_payload,omitempty"`
	CreatedAt time.Time      `gorm:"column:audit_log_created_at;autoCreateTime" json:"audit_log_created_at"`
}

func (AuditLogModel) TableName() string {
	return "audit_logs"
}
