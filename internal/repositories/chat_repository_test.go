package repositories

import (
	"fmt"
	"testing"
	"time"

	"campuschat/internal/errs"
	"campuschat/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Message{}, &models.MessageFile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "x",
		Permissions:  models.PermissionSet{"chats": {"view", "edit"}},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func saveTestMessage(t *testing.T, chr *ChatRepository, sender, receiver uint, content string) *models.Message {
	t.Helper()
	saved, errs := chr.SaveMessage(&models.Message{
		SenderID:   sender,
		ReceiverID: receiver,
		Content:    content,
	})
	if len(errs) > 0 {
		t.Fatalf("save message: %v", errs)
	}
	return saved
}

func TestSaveMessageAppearsInConversationOnce(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")

	saved := saveTestMessage(t, chr, alice.ID, bob.ID, "Hello")

	messages, errs := chr.GetConversation(alice.ID, bob.ID)
	if len(errs) > 0 {
		t.Fatalf("get conversation: %v", errs)
	}

	found := 0
	for _, message := range messages {
		if message.ID == saved.ID {
			found++
		}
	}
	if found != 1 {
		t.Fatalf("expected the saved message exactly once, found %d times", found)
	}
}

func TestGetConversationOrderedOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")

	for i := 0; i < 5; i++ {
		saveTestMessage(t, chr, alice.ID, bob.ID, fmt.Sprintf("message %d", i))
	}

	messages, errs := chr.GetConversation(alice.ID, bob.ID)
	if len(errs) > 0 {
		t.Fatalf("get conversation: %v", errs)
	}
	if len(messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(messages))
	}
	for i := 1; i < len(messages); i++ {
		prev, curr := messages[i-1], messages[i]
		if curr.CreatedAt.Before(prev.CreatedAt) {
			t.Fatalf("messages out of timestamp order at index %d", i)
		}
		if curr.CreatedAt.Equal(prev.CreatedAt) && curr.ID < prev.ID {
			t.Fatalf("timestamp ties not broken by insertion order at index %d", i)
		}
	}
}

func TestGetConversationIsSymmetric(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")

	saveTestMessage(t, chr, alice.ID, bob.ID, "from alice")
	saveTestMessage(t, chr, bob.ID, alice.ID, "from bob")

	forward, errs := chr.GetConversation(alice.ID, bob.ID)
	if len(errs) > 0 {
		t.Fatalf("get conversation: %v", errs)
	}
	backward, errs := chr.GetConversation(bob.ID, alice.ID)
	if len(errs) > 0 {
		t.Fatalf("get conversation: %v", errs)
	}

	if len(forward) != len(backward) {
		t.Fatalf("asymmetric results: %d vs %d", len(forward), len(backward))
	}
	for i := range forward {
		if forward[i].ID != backward[i].ID {
			t.Fatalf("sequence differs at index %d: %v vs %v", i, forward[i].ID, backward[i].ID)
		}
	}
}

func TestSaveMessagePersistsAttachments(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")

	saved, errs := chr.SaveMessage(&models.Message{
		SenderID:   alice.ID,
		ReceiverID: bob.ID,
		Content:    "see attached",
		Files: []models.MessageFile{
			{Url: "http://files/enrollment.pdf", ContentType: "application/pdf", FileName: "enrollment.pdf", FileSize: 1024},
			{Url: "http://files/map.png", ContentType: "image/png", FileName: "map.png", FileSize: 2048},
		},
	})
	if len(errs) > 0 {
		t.Fatalf("save message: %v", errs)
	}
	if len(saved.Files) != 2 {
		t.Fatalf("expected 2 persisted attachments, got %d", len(saved.Files))
	}
	for _, file := range saved.Files {
		if file.MessageID != saved.ID {
			t.Fatalf("attachment not linked to its message: %v != %v", file.MessageID, saved.ID)
		}
	}

	messages, errs := chr.GetConversation(alice.ID, bob.ID)
	if len(errs) > 0 {
		t.Fatalf("get conversation: %v", errs)
	}
	if len(messages) != 1 || len(messages[0].Files) != 2 {
		t.Fatalf("attachments not loaded with the conversation")
	}
}

func TestSaveMessageToleratesAttachmentFailurePartway(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")

	// Reject the second attachment at the storage layer so the save
	// fails partway through the file inserts.
	if err := db.Exec(`CREATE TRIGGER reject_large_attachments BEFORE INSERT ON message_files
		WHEN NEW.file_size > 1000000
		BEGIN SELECT RAISE(ABORT, 'storage full'); END`).Error; err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	saved, errs := chr.SaveMessage(&models.Message{
		SenderID:   alice.ID,
		ReceiverID: bob.ID,
		Content:    "grades attached",
		Files: []models.MessageFile{
			{Url: "http://files/grades.csv", ContentType: "text/csv", FileName: "grades.csv", FileSize: 256},
			{Url: "http://files/archive.zip", ContentType: "application/zip", FileName: "archive.zip", FileSize: 5000000},
		},
	})
	if len(errs) > 0 {
		t.Fatalf("a partial attachment set must not fail the save: %v", errs)
	}
	if len(saved.Files) != 1 || saved.Files[0].FileName != "grades.csv" {
		t.Fatalf("expected the surviving attachment only, got %+v", saved.Files)
	}

	messages, convErrs := chr.GetConversation(alice.ID, bob.ID)
	if len(convErrs) > 0 {
		t.Fatalf("get conversation: %v", convErrs)
	}
	if len(messages) != 1 {
		t.Fatalf("message row must stay in place, got %d messages", len(messages))
	}
	if len(messages[0].Files) != 1 {
		t.Fatalf("persisted attachments must remain readable, got %d", len(messages[0].Files))
	}
}

func TestMarkReadIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")

	saveTestMessage(t, chr, bob.ID, alice.ID, "one")
	saveTestMessage(t, chr, bob.ID, alice.ID, "two")

	if err := chr.MarkRead(alice.ID, bob.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unreadAfterFirst, err := chr.getUnreadCount(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}

	if err := chr.MarkRead(alice.ID, bob.ID); err != nil {
		t.Fatalf("mark read again: %v", err)
	}
	unreadAfterSecond, err := chr.getUnreadCount(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}

	if unreadAfterFirst != 0 || unreadAfterSecond != 0 {
		t.Fatalf("expected 0 unread after mark read, got %d then %d", unreadAfterFirst, unreadAfterSecond)
	}
}

func TestMarkReadIsDirectional(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")

	saveTestMessage(t, chr, bob.ID, alice.ID, "to alice")
	saveTestMessage(t, chr, alice.ID, bob.ID, "to bob")

	if err := chr.MarkRead(alice.ID, bob.ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unreadForBob, err := chr.getUnreadCount(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("unread count: %v", err)
	}
	if unreadForBob != 1 {
		t.Fatalf("marking alice's side read must not touch bob's unread, got %d", unreadForBob)
	}
}

func TestGetChatHeadsCoversExactlyTheCounterparts(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")
	carol := createTestUser(t, db, "carol@campus.edu")
	createTestUser(t, db, "dave@campus.edu") // never messaged

	saveTestMessage(t, chr, alice.ID, bob.ID, "hi bob")
	saveTestMessage(t, chr, carol.ID, alice.ID, "hi alice")

	chatHeads, errs := chr.GetChatHeads(alice.ID)
	if len(errs) > 0 {
		t.Fatalf("get chat heads: %v", errs)
	}

	if len(chatHeads) != 2 {
		t.Fatalf("expected chat heads for bob and carol only, got %d entries", len(chatHeads))
	}
	seen := map[uint]bool{}
	for _, head := range chatHeads {
		if head.LastMessage == nil {
			t.Fatalf("chat head for user %v has no last message", head.Counterpart.ID)
		}
		seen[head.Counterpart.ID] = true
	}
	if !seen[bob.ID] || !seen[carol.ID] {
		t.Fatalf("expected both counterparts, got %v", seen)
	}
}

func TestGetChatHeadsOrderingAndUnread(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")
	carol := createTestUser(t, db, "carol@campus.edu")

	older := saveTestMessage(t, chr, bob.ID, alice.ID, "old")
	// Push the bob conversation into the past so carol's is the most
	// recently active one.
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&models.Message{}).Where("id = ?", older.ID).Update("created_at", past).Error; err != nil {
		t.Fatalf("backdate message: %v", err)
	}
	saveTestMessage(t, chr, carol.ID, alice.ID, "new one")
	saveTestMessage(t, chr, carol.ID, alice.ID, "new two")

	chatHeads, errs := chr.GetChatHeads(alice.ID)
	if len(errs) > 0 {
		t.Fatalf("get chat heads: %v", errs)
	}
	if len(chatHeads) != 2 {
		t.Fatalf("expected 2 chat heads, got %d", len(chatHeads))
	}

	if chatHeads[0].Counterpart.ID != carol.ID {
		t.Fatalf("most recently active conversation should come first")
	}
	if chatHeads[0].Unread != 2 {
		t.Fatalf("expected 2 unread from carol, got %d", chatHeads[0].Unread)
	}
	if chatHeads[0].LastMessage.Content != "new two" {
		t.Fatalf("expected latest message, got %q", chatHeads[0].LastMessage.Content)
	}
	if chatHeads[1].Counterpart.ID != bob.ID || chatHeads[1].Unread != 1 {
		t.Fatalf("unexpected second chat head: %+v", chatHeads[1])
	}
}

func TestGetChatHeadsTimestampTieBrokenByCounterpartID(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")
	carol := createTestUser(t, db, "carol@campus.edu")

	fromBob := saveTestMessage(t, chr, bob.ID, alice.ID, "from bob")
	fromCarol := saveTestMessage(t, chr, carol.ID, alice.ID, "from carol")

	// Pin both conversations' last messages to the identical instant so
	// only the counterpart-id tiebreak decides the order.
	tied := time.Now().Add(-time.Minute)
	for _, id := range []uint{fromBob.ID, fromCarol.ID} {
		if err := db.Model(&models.Message{}).Where("id = ?", id).Update("created_at", tied).Error; err != nil {
			t.Fatalf("pin message timestamp: %v", err)
		}
	}

	chatHeads, errs := chr.GetChatHeads(alice.ID)
	if len(errs) > 0 {
		t.Fatalf("get chat heads: %v", errs)
	}
	if len(chatHeads) != 2 {
		t.Fatalf("expected 2 chat heads, got %d", len(chatHeads))
	}
	if chatHeads[0].Counterpart.ID != bob.ID || chatHeads[1].Counterpart.ID != carol.ID {
		t.Fatalf("equal timestamps must order by counterpart id ascending, got %v then %v",
			chatHeads[0].Counterpart.ID, chatHeads[1].Counterpart.ID)
	}
}

func TestStorageFailuresSurfaceAsStorageUnavailable(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")
	bob := createTestUser(t, db, "bob@campus.edu")

	if err := db.Migrator().DropTable(&models.Message{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, saveErrs := chr.SaveMessage(&models.Message{SenderID: alice.ID, ReceiverID: bob.ID, Content: "hi"})
	if len(saveErrs) != 1 || saveErrs[0] != errs.ErrStorageUnavailable {
		t.Fatalf("expected ErrStorageUnavailable from save, got %v", saveErrs)
	}

	_, convErrs := chr.GetConversation(alice.ID, bob.ID)
	if len(convErrs) != 1 || convErrs[0] != errs.ErrStorageUnavailable {
		t.Fatalf("expected ErrStorageUnavailable from read, got %v", convErrs)
	}

	if err := chr.MarkRead(alice.ID, bob.ID); err != errs.ErrStorageUnavailable {
		t.Fatalf("expected ErrStorageUnavailable from mark read, got %v", err)
	}

	_, headErrs := chr.GetChatHeads(alice.ID)
	if len(headErrs) != 1 || headErrs[0] != errs.ErrStorageUnavailable {
		t.Fatalf("expected ErrStorageUnavailable from chat heads, got %v", headErrs)
	}
}

func TestEnsureAdminAccountSeedsEmptyDirectoryOnce(t *testing.T) {
	db := setupTestDB(t)
	ar := NewAccountRepository(db)

	if err := ar.EnsureAdminAccount("admin@campus.edu", "ChangeMe123!"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := ar.EnsureAdminAccount("admin@campus.edu", "ChangeMe123!"); err != nil {
		t.Fatalf("second seed must be a no-op: %v", err)
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one seeded account, got %d", count)
	}

	if _, loginErrs := ar.Login(&models.LoginRequestBody{
		Email:    "admin@campus.edu",
		Password: "ChangeMe123!",
	}); len(loginErrs) > 0 {
		t.Fatalf("seeded credentials must log in: %v", loginErrs)
	}
	if _, loginErrs := ar.Login(&models.LoginRequestBody{
		Email:    "admin@campus.edu",
		Password: "wrong",
	}); len(loginErrs) == 0 {
		t.Fatalf("wrong password must not log in")
	}
}

func TestEnsureAdminAccountLeavesPopulatedDirectoryAlone(t *testing.T) {
	db := setupTestDB(t)
	ar := NewAccountRepository(db)
	createTestUser(t, db, "alice@campus.edu")

	if err := ar.EnsureAdminAccount("admin@campus.edu", "ChangeMe123!"); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if ar.GetUserByEmail("admin@campus.edu") != nil {
		t.Fatalf("populated directory must not be seeded")
	}
}

func TestGetUserByID(t *testing.T) {
	db := setupTestDB(t)
	ar := NewAccountRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")

	user, err := ar.GetUserByID(alice.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Email != "alice@campus.edu" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := ar.GetUserByID(9999); err != errs.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetChatHeadsEmptyForQuietUser(t *testing.T) {
	db := setupTestDB(t)
	chr := NewChatRepository(db)
	alice := createTestUser(t, db, "alice@campus.edu")

	chatHeads, errs := chr.GetChatHeads(alice.ID)
	if len(errs) > 0 {
		t.Fatalf("get chat heads: %v", errs)
	}
	if len(chatHeads) != 0 {
		t.Fatalf("expected no chat heads for a user with no messages, got %d", len(chatHeads))
	}
}
