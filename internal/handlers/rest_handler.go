package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"campuschat/internal/errs"
	"campuschat/internal/models"
	"campuschat/internal/msgs"
	"campuschat/internal/services"
	"campuschat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RestHandler struct {
	accountService     *services.AccountService
	chatService        *services.ChatService
	dispatcherService  *services.DispatcherService
	fileManagerService *services.FileManagerService
}

func NewRestHandler(
	accountService *services.AccountService,
	chatService *services.ChatService,
	dispatcherService *services.DispatcherService,
	fileManagerService *services.FileManagerService,
) *RestHandler {
	return &RestHandler{
		accountService:     accountService,
		chatService:        chatService,
		dispatcherService:  dispatcherService,
		fileManagerService: fileManagerService,
	}
}

func (rh *RestHandler) Login(ctx *gin.Context) {
	var loginData models.LoginRequestBody
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidRequestBody},
		})
		return
	}

	loginResponse, loginErrs := rh.accountService.Login(&loginData)
	if len(loginErrs) > 0 {
		ctx.AbortWithStatusJSON(errs.HTTPStatusAll(loginErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  loginErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

// GetChatHeads returns the caller's chat-head list: one row per
// counterpart, latest message first.
func (rh *RestHandler) GetChatHeads(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	if userID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	chatHeads, headErrs := rh.chatService.GetChatHeads(userID)
	if len(headErrs) > 0 {
		ctx.AbortWithStatusJSON(errs.HTTPStatusAll(headErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  headErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    models.ChatHeadListResponse{ChatHeads: chatHeads},
	})
}

// GetMessages returns the full conversation between the caller and
// receiver_id, oldest first, and marks the counterpart's messages as
// read: fetching a conversation is how the client displays it.
func (rh *RestHandler) GetMessages(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	if userID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	receiverParam := ctx.Query("receiver_id")
	receiverID, err := strconv.Atoi(receiverParam)
	if err != nil || receiverID < 1 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidReceiverId},
		})
		return
	}

	if err := rh.chatService.MarkRead(userID, uint(receiverID)); err != nil {
		log.Printf("GetMessages - error marking conversation read: %v", err)
	}

	messages, msgErrs := rh.chatService.GetConversation(userID, uint(receiverID))
	if len(msgErrs) > 0 {
		ctx.AbortWithStatusJSON(errs.HTTPStatusAll(msgErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  msgErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    models.MessageListResponse{Messages: messages},
	})
}

// SaveMessage creates a message and dispatches it. The body is either
// JSON (text only) or multipart form data with a "content" field and
// zero or more "files". The response only ever reflects whether the
// message was saved; real-time delivery is invisible to the sender.
func (rh *RestHandler) SaveMessage(ctx *gin.Context) {
	senderID := utils.GetUserIdFromContext(ctx)
	if senderID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	message, buildErrs := rh.buildMessage(ctx, senderID)
	if len(buildErrs) > 0 {
		ctx.AbortWithStatusJSON(errs.HTTPStatusAll(buildErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  buildErrs,
		})
		return
	}

	saved, sendErrs := rh.dispatcherService.Send(message)
	if len(sendErrs) > 0 {
		ctx.AbortWithStatusJSON(errs.HTTPStatusAll(sendErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  sendErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgMessageSaved,
		Data:    saved,
	})
}

// GetOnlineUsers returns the ids of users currently holding a live
// connection on this process.
func (rh *RestHandler) GetOnlineUsers(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    gin.H{"online": rh.dispatcherService.Hub().OnlineUserIDs()},
	})
}

// GetUsers lists the campus account directory, paginated, for the
// client's counterpart picker.
func (rh *RestHandler) GetUsers(ctx *gin.Context) {
	page, err := strconv.Atoi(ctx.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.Query("size"))
	if err != nil || size < 1 {
		size = 10
	}

	users, userErrs := rh.accountService.GetAllUsersWithPagination(page, size)
	if len(userErrs) > 0 {
		ctx.AbortWithStatusJSON(errs.HTTPStatusAll(userErrs), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  userErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    users,
	})
}

// GetUser resolves one directory entry, used by the client to show a
// counterpart profile it has not cached.
func (rh *RestHandler) GetUser(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || userID < 1 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidUserId},
		})
		return
	}

	user, lookupErr := rh.accountService.GetUserByID(uint(userID))
	if lookupErr != nil {
		ctx.AbortWithStatusJSON(errs.HTTPStatus(lookupErr), models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{lookupErr},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    user.ToUserResponse(),
	})
}

func (rh *RestHandler) buildMessage(ctx *gin.Context, senderID uint) (*models.Message, []error) {
	contentType := ctx.ContentType()
	if contentType != "multipart/form-data" {
		var messageRequest models.MessageRequest
		if err := ctx.ShouldBindJSON(&messageRequest); err != nil {
			return nil, []error{errs.ErrInvalidRequestBody}
		}
		return &models.Message{
			SenderID:   senderID,
			ReceiverID: messageRequest.ReceiverID,
			Content:    messageRequest.Content,
		}, nil
	}

	receiverID, err := strconv.Atoi(ctx.PostForm("receiver_id"))
	if err != nil || receiverID < 1 {
		return nil, []error{errs.ErrInvalidReceiverId}
	}

	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: uint(receiverID),
		Content:    ctx.PostForm("content"),
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, []error{errs.ErrInvalidRequestBody}
	}

	for _, fileHeader := range form.File["files"] {
		src, err := fileHeader.Open()
		if err != nil {
			return nil, []error{errs.ErrUnableToOpenUploadedFile}
		}

		objectName := fmt.Sprintf("chat_%s%s", uuid.NewString(), filepath.Ext(fileHeader.Filename))
		url, err := rh.fileManagerService.UploadChatAttachment(
			objectName,
			src,
			fileHeader.Size,
			fileHeader.Header.Get("Content-Type"),
		)
		src.Close()
		if err != nil {
			return nil, []error{errs.ErrUnableToUploadFile}
		}

		message.Files = append(message.Files, models.MessageFile{
			Url:         url,
			ContentType: fileHeader.Header.Get("Content-Type"),
			FileName:    fileHeader.Filename,
			FileSize:    fileHeader.Size,
		})
	}

	return message, nil
}
