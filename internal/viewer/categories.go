package viewer

import (
	"path/filepath"
	"strings"
)

// Category is the display strategy selected for a decrypted file
type Category string

const (
	CategoryText    Category = "text"
	CategoryCode    Category = "code"
	CategoryData    Category = "data"
	CategoryWeb     Category = "web"
	CategoryImage   Category = "image"
	CategoryVideo   Category = "video"
	CategoryAudio   Category = "audio"
	CategoryPDF     Category = "pdf"
	CategoryOffice  Category = "office"
	CategoryGeneric Category = "generic"
)

var categoryByExtension = map[string]Category{
	".txt": CategoryText, ".md": CategoryText, ".log": CategoryText, ".rtf": CategoryText,

	".go": CategoryCode, ".py": CategoryCode, ".js": CategoryCode, ".ts": CategoryCode,
	".java": CategoryCode, ".c": CategoryCode, ".h": CategoryCode, ".cpp": CategoryCode,
	".rs": CategoryCode, ".rb": CategoryCode, ".sh": CategoryCode, ".sql": CategoryCode,
	".css": CategoryCode, ".php": CategoryCode,

	".json": CategoryData, ".xml": CategoryData, ".yaml": CategoryData, ".yml": CategoryData,
	".csv": CategoryData, ".toml": CategoryData, ".ini": CategoryData, ".env": CategoryData,

	".html": CategoryWeb, ".htm": CategoryWeb, ".svg": CategoryWeb,

	".png": CategoryImage, ".jpg": CategoryImage, ".jpeg": CategoryImage, ".gif": CategoryImage,
	".bmp": CategoryImage, ".webp": CategoryImage, ".ico": CategoryImage,

	".mp4": CategoryVideo, ".mov": CategoryVideo, ".avi": CategoryVideo, ".mkv": CategoryVideo,
	".webm": CategoryVideo,

	".mp3": CategoryAudio, ".wav": CategoryAudio, ".ogg": CategoryAudio, ".flac": CategoryAudio,
	".m4a": CategoryAudio,

	".pdf": CategoryPDF,

	".doc": CategoryOffice, ".docx": CategoryOffice, ".xls": CategoryOffice, ".xlsx": CategoryOffice,
	".ppt": CategoryOffice, ".pptx": CategoryOffice, ".odt": CategoryOffice, ".ods": CategoryOffice,
	".odp": CategoryOffice,
}

// Categorize selects a display strategy from the file extension
func Categorize(filename string) Category {
	ext := strings.ToLower(filepath.Ext(filename))
	if cat, ok := categoryByExtension[ext]; ok {
		return cat
	}
	return CategoryGeneric
}
