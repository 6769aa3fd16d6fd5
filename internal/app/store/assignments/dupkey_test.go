// internal/app/store/assignments/dupkey_test.go
package assignmentstore

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func writeErr(msg string) error {
	return mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: msg,
	}}}
}

func TestDuplicateKeyClassification(t *testing.T) {
	kanban := writeErr(`E11000 duplicate key error collection: bordhub.assignments index: uniq_assign_kanban_active dup key: { board_id: ... }`)
	kanbanPersonal := writeErr(`E11000 duplicate key error collection: bordhub.assignments index: uniq_assign_kanban_personal dup key: { assigned_by: ... }`)
	tuple := writeErr(`E11000 duplicate key error collection: bordhub.assignments index: uniq_assign_org_tuple dup key: { board_id: ... }`)

	for _, err := range []error{kanban, kanbanPersonal, tuple} {
		if !isDuplicateKeyErr(err) {
			t.Errorf("isDuplicateKeyErr(%v) = false, want true", err)
		}
	}
	if !isKanbanIndexErr(kanban) || !isKanbanIndexErr(kanbanPersonal) {
		t.Error("kanban index violations must classify as kanban conflicts")
	}
	if isKanbanIndexErr(tuple) {
		t.Error("a tuple index violation must not report a kanban conflict")
	}
	if isDuplicateKeyErr(errors.New("connection reset")) {
		t.Error("unrelated errors must not classify as duplicates")
	}
}
