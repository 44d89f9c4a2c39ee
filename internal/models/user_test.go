package models

import "testing"

func TestPermissionSetHasAccess(t *testing.T) {
	permissions := PermissionSet{
		"chats":     {"view", "edit"},
		"documents": {"view"},
	}

	if !permissions.HasAccess("chats", "edit") {
		t.Fatalf("expected edit access on chats")
	}
	if permissions.HasAccess("documents", "edit") {
		t.Fatalf("documents must be view-only")
	}
	if permissions.HasAccess("reports", "view") {
		t.Fatalf("unknown module must grant nothing")
	}

	var empty PermissionSet
	if empty.HasAccess("chats", "view") {
		t.Fatalf("nil set must grant nothing")
	}
}
