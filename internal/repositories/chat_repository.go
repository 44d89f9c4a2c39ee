package repositories

import (
	"log"
	"sort"

	"campuschat/internal/errs"
	"campuschat/internal/models"

	"gorm.io/gorm"
)

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

// SaveMessage persists the message row first and its attachment rows
// after it, each on its own. There is deliberately no transaction here:
// when an attachment insert fails partway, the message and the
// already-inserted files stay in place and the partial set is returned
// as valid. Callers must tolerate that.
func (chr *ChatRepository) SaveMessage(message *models.Message) (*models.Message, []error) {
	var errors []error

	files := message.Files
	message.Files = nil

	if err := chr.db.Create(message).Error; err != nil {
		log.Printf("SaveMessage - message not persisted: %v", err)
		errors = append(errors, errs.ErrStorageUnavailable)
		return nil, errors
	}

	saved := make([]models.MessageFile, 0, len(files))
	for _, file := range files {
		file.MessageID = message.ID
		if err := chr.db.Create(&file).Error; err != nil {
			log.Printf("SaveMessage - attachment %q not persisted for message %v: %v", file.FileName, message.ID, err)
			continue
		}
		saved = append(saved, file)
	}
	message.Files = saved

	return message, nil
}

// GetConversation returns every message between the two users, oldest
// first. Ties on the creation timestamp fall back to insertion order.
// Symmetric in its arguments.
func (chr *ChatRepository) GetConversation(userA, userB uint) ([]models.Message, []error) {
	var errors []error
	var messages []models.Message

	err := chr.db.
		Preload("Files").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("GetConversation - error reading pair (%v, %v): %v", userA, userB, err)
		errors = append(errors, errs.ErrStorageUnavailable)
		return nil, errors
	}

	return messages, nil
}

// MarkRead flags every message from sender to receiver as read.
// Idempotent, a second call changes nothing.
func (chr *ChatRepository) MarkRead(receiverID, senderID uint) error {
	err := chr.db.
		Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, receiverID, false).
		Update("read", true).Error
	if err != nil {
		log.Printf("MarkRead - error flagging pair (%v, %v): %v", senderID, receiverID, err)
		return errs.ErrStorageUnavailable
	}
	return nil
}

// GetChatHeads computes the chat-head list for a user: one entry per
// distinct counterpart, carrying the latest message of that
// conversation and the unread count. Ordered most recently active
// first, ties broken by counterpart id ascending. Recomputed on every
// call, nothing is cached.
func (chr *ChatRepository) GetChatHeads(userID uint) ([]models.ChatHead, []error) {
	var errors []error

	counterparts, err := chr.getCounterpartIDs(userID)
	if err != nil {
		log.Printf("GetChatHeads - error scanning counterparts of user %v: %v", userID, err)
		errors = append(errors, errs.ErrStorageUnavailable)
		return nil, errors
	}

	chatHeads := make([]models.ChatHead, 0, len(counterparts))
	for _, counterpartID := range counterparts {
		lastMessage, err := chr.getLastMessage(userID, counterpartID)
		if err != nil {
			// Read-committed reality: the counterpart showed up in the
			// scan but its messages are gone or unreadable now. Skip it
			// rather than show a conversation without messages.
			log.Printf("GetChatHeads - no readable last message for pair (%v, %v): %v", userID, counterpartID, err)
			continue
		}

		unread, err := chr.getUnreadCount(userID, counterpartID)
		if err != nil {
			log.Printf("GetChatHeads - error counting unread from %v to %v: %v", counterpartID, userID, err)
			errors = append(errors, errs.ErrStorageUnavailable)
			return nil, errors
		}

		var counterpart models.User
		if err := chr.db.First(&counterpart, counterpartID).Error; err != nil {
			log.Printf("GetChatHeads - error loading counterpart %v: %v", counterpartID, err)
			errors = append(errors, errs.ErrStorageUnavailable)
			return nil, errors
		}

		chatHeads = append(chatHeads, models.ChatHead{
			Counterpart: counterpart.ToUserResponse(),
			LastMessage: lastMessage,
			Unread:      unread,
		})
	}

	sort.SliceStable(chatHeads, func(i, j int) bool {
		a, b := chatHeads[i].LastMessage, chatHeads[j].LastMessage
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return chatHeads[i].Counterpart.ID < chatHeads[j].Counterpart.ID
	})

	return chatHeads, nil
}

func (chr *ChatRepository) getCounterpartIDs(userID uint) ([]uint, error) {
	var counterparts []uint
	err := chr.db.Raw(
		`SELECT DISTINCT CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END AS counterpart_id
		 FROM messages
		 WHERE (sender_id = ? OR receiver_id = ?) AND deleted_at IS NULL`,
		userID, userID, userID,
	).Scan(&counterparts).Error
	if err != nil {
		return nil, err
	}
	return counterparts, nil
}

func (chr *ChatRepository) getLastMessage(userID, counterpartID uint) (*models.Message, error) {
	var message models.Message
	err := chr.db.
		Preload("Files").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, counterpartID, counterpartID, userID).
		Order("created_at DESC, id DESC").
		First(&message).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (chr *ChatRepository) getUnreadCount(userID, counterpartID uint) (int, error) {
	var count int
	err := chr.db.Raw(
		`SELECT COUNT(*) FROM messages
		 WHERE sender_id = ? AND receiver_id = ? AND read = ? AND deleted_at IS NULL`,
		counterpartID, userID, false,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
