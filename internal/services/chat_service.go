package services

import (
	"campuschat/internal/errs"
	"campuschat/internal/models"
	"campuschat/internal/repositories"
	"campuschat/internal/validators"
)

// ChatService is the message store surface: validated writes, ordered
// conversation reads, chat-head aggregation and the read-flag
// transition.
type ChatService struct {
	chatRepo    *repositories.ChatRepository
	accountRepo *repositories.AccountRepository
}

func NewChatService(chatRepo *repositories.ChatRepository, accountRepo *repositories.AccountRepository) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		accountRepo: accountRepo,
	}
}

// SaveMessage validates and persists a new message with its attachment
// metadata. Nothing is written when validation or the existence checks
// fail.
func (cs *ChatService) SaveMessage(message *models.Message) (*models.Message, []error) {
	if validationErrs := validators.ValidateMessage(message); len(validationErrs) > 0 {
		return nil, validationErrs
	}

	if !cs.accountRepo.CheckUserExists(message.SenderID) {
		return nil, []error{errs.ErrSenderNotFound}
	}
	if !cs.accountRepo.CheckUserExists(message.ReceiverID) {
		return nil, []error{errs.ErrReceiverNotFound}
	}

	return cs.chatRepo.SaveMessage(message)
}

func (cs *ChatService) GetConversation(userA, userB uint) ([]models.Message, []error) {
	if userA == 0 || userB == 0 {
		return nil, []error{errs.ErrInvalidUserId}
	}
	return cs.chatRepo.GetConversation(userA, userB)
}

func (cs *ChatService) MarkRead(receiverID, senderID uint) error {
	if receiverID == 0 || senderID == 0 {
		return errs.ErrInvalidUserId
	}
	return cs.chatRepo.MarkRead(receiverID, senderID)
}

func (cs *ChatService) GetChatHeads(userID uint) ([]models.ChatHead, []error) {
	if userID == 0 {
		return nil, []error{errs.ErrInvalidUserId}
	}
	return cs.chatRepo.GetChatHeads(userID)
}
