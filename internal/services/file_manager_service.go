package services

import (
	"io"

	"campuschat/internal/enums"
	"campuschat/internal/interfaces"
)

type FileManagerService struct {
	fileManager interfaces.FileManager
}

func NewFileManagerService(fileManager interfaces.FileManager) *FileManagerService {
	return &FileManagerService{
		fileManager: fileManager,
	}
}

// UploadChatAttachment stores the attachment bytes and returns the
// public URL recorded on the message file row.
func (fs *FileManagerService) UploadChatAttachment(fileName string, file io.Reader, fileSize int64, contentType string) (string, error) {
	return fs.fileManager.UploadFile(fileName, file, fileSize, contentType, enums.FILE_BUCKET_CHAT_ATTACHMENTS)
}
