// internal/services/audit.go
package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/isabitv/isabitv-backend/internal/models"
)

// writeAuditLog records an administrative action. Callers invoke it in a
// goroutine so audit persistence never blocks the mutation path.
func writeAuditLog(db *gorm.DB, userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	if err := db.Create(auditLog).Error; err != nil {
		logrus.WithError(err).WithField("action", action).Error("Failed to create audit log")
	}
}
