package service

import "errors"

var (
	// ErrNotFound 资源不存在
	ErrNotFound = errors.New("resource not found")
	// ErrNoScanData 请求缺少 EPC 数据
	ErrNoScanData = errors.New("no scan data provided")
	// ErrNoSpecData 对账输入没有明细行
	ErrNoSpecData = errors.New("no specification data provided")
	// ErrTypeNotFound 作业类型不存在
	ErrTypeNotFound = errors.New("operation type not found")
	// ErrCompanyNotFound 公司不存在
	ErrCompanyNotFound = errors.New("company not found")
	// ErrTypeNotAllowed 公司未被授权提交该作业类型
	ErrTypeNotAllowed = errors.New("operation type not allowed for company")
	// ErrQuantityOutOfRange 数量超出合法区间
	ErrQuantityOutOfRange = errors.New("quantity out of range")
	// ErrHashSpaceExhausted 批号哈希尝试次数耗尽
	ErrHashSpaceExhausted = errors.New("lot hash space exhausted")
	// ErrNegativeStock 扣减后库存为负
	ErrNegativeStock = errors.New("stock would become negative")
	// ErrEmptyCatalog 目录文件没有可用数据行
	ErrEmptyCatalog = errors.New("catalog file contains no rows")
)
