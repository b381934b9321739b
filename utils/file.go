package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	FILE_EXT_TIF  = ".tif"
	FILE_EXT_TIFF = ".tiff"
)

var (
	ErrEmptyPath = errors.New("empty path")
)

// 在parentPath下创建唯一的临时子目录
func GetUniqSubDir(parentPath string) (path string, err error) {
	if parentPath == "" {
		parentPath = os.TempDir()
	}
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

// 按模板在dir下生成带uuid的文件路径，tpl需包含一个%s
func GetUniqFilePath(dir, tpl string) string {
	return filepath.Join(dir, fmt.Sprintf(tpl, uuid.NewString()))
}

func IsTifPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == FILE_EXT_TIF || ext == FILE_EXT_TIFF
}

// 检查各路径均非空，返回第一个为空的参数名
func CheckPaths(named ...[2]string) (err error) {
	for _, p := range named {
		if strings.TrimSpace(p[1]) == "" {
			err = fmt.Errorf("%w: %s", ErrEmptyPath, p[0])
			return
		}
	}
	return
}
