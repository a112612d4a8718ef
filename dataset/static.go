package dataset

import (
	"context"
	"os"

	"github.com/goccy/go-json"

	"github.com/rushteam/lmsrec/core"
)

// StaticSource 是内存数据源，用于测试、演示以及已经加载好的数据集。
type StaticSource struct {
	Courses []core.Course
	Users   []core.User

	// Err 非空时所有加载都返回该错误
	Err error
}

// NewStaticSource 从 Dataset 构建内存数据源。
func NewStaticSource(ds *Dataset) *StaticSource {
	if ds == nil {
		return &StaticSource{}
	}
	return &StaticSource{Courses: ds.Courses, Users: ds.Users}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) LoadCourses(context.Context) ([]core.Course, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Courses, nil
}

func (s *StaticSource) LoadUsers(context.Context) ([]core.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Users, nil
}

func (s *StaticSource) CheckConnection(context.Context) (bool, string) {
	if s.Err != nil {
		return false, s.Err.Error()
	}
	return true, "static dataset ready"
}

func (s *StaticSource) Close(context.Context) error { return nil }

// ReadFile 读取 JSON 格式的数据集文件：{"courses": [...], "users": [...]}。
func ReadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeUnavailable, "dataset: read "+path, err)
	}
	ds := &Dataset{}
	if err := json.Unmarshal(data, ds); err != nil {
		return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: decode "+path, err)
	}
	return ds, nil
}

// WriteFile 把数据集写为带缩进的 JSON 文件。
func WriteFile(path string, ds *Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
