package qdma

import (
	"github.com/xlnx/qdma-core/internal/resmgr"
	"github.com/xlnx/qdma-core/internal/sys"
)

// ResourceManager, FuncKey and QType are re-exported from internal/resmgr
// and internal/sys so callers never need to import those internal
// packages directly (§2 C4).
type (
	ResourceManager = resmgr.Manager
	FuncKey         = resmgr.FuncKey
	QType           = sys.QType
	QInfo           = resmgr.QInfo
)

const (
	QTypeH2C  = sys.QTypeH2C
	QTypeC2H  = sys.QTypeC2H
	QTypeCmpt = sys.QTypeCmpt
)

// NewResourceManager constructs an empty resource manager (§4.4).
func NewResourceManager() *ResourceManager { return resmgr.New() }
