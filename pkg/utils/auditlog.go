package utils

import (
	"context"
	"encoding/json"
	"log"

	"github.com/linskybing/nephra/internal/domain/audit"
	"github.com/linskybing/nephra/internal/repository"
	"github.com/linskybing/nephra/pkg/types"
)

// LogAuditWithConsole records an audit entry and only logs failures, so a
// broken audit store never fails the action being audited.
var LogAuditWithConsole = func(ctx context.Context, actor types.Actor, action, resourceType, resourceID string, oldData, newData interface{}, msg string, repo repository.AuditRepo) {
	if err := LogAudit(ctx, actor, action, resourceType, resourceID, oldData, newData, msg, repo); err != nil {
		log.Printf("[LogAudit] error: %v", err)
	}
}

var LogAudit = func(
	ctx context.Context,
	actor types.Actor,
	action string,
	resourceType string,
	resourceID string,
	before any,
	after any,
	description string,
	repo repository.AuditRepo,
) error {
	if repo == nil {
		return nil
	}

	var oldData, newData []byte
	var err error

	if before != nil {
		oldData, err = json.Marshal(before)
		if err != nil {
			log.Printf("Audit marshal oldData error: %v", err)
		}
	}
	if after != nil {
		newData, err = json.Marshal(after)
		if err != nil {
			log.Printf("Audit marshal newData error: %v", err)
		}
	}

	auditLog := &audit.AuditLog{
		UserID:       actor.ID,
		Actor:        actor.Name,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldData:      oldData,
		NewData:      newData,
		IPAddress:    actor.IP,
		UserAgent:    actor.UserAgent,
		Description:  description,
	}

	return repo.CreateAuditLog(ctx, auditLog)
}
