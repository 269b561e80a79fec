package epc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrTooShort EPC 长度不足
	ErrTooShort = errors.New("epc too short")
	// ErrBadExpiry 有效期段不是合法的 YYMMDD
	ErrBadExpiry = errors.New("epc expiry segment invalid")
	// ErrExpiryOutOfRange 有效期超出可信窗口
	ErrExpiryOutOfRange = errors.New("epc expiry out of range")
)

// Layout EPC 字段布局：各段长度按顺序为 前缀、产品代码、有效期、批号哈希
type Layout struct {
	PrefixLength      int
	ProductCodeLength int
	ExpiryLength      int
	LotHashLength     int
	MinExpiry         time.Time
	MaxExpiry         time.Time
}

// Tag EPC 解析结果
type Tag struct {
	Raw         string
	ProductCode string
	ExpiryDate  time.Time
	LotHash     string
}

// Decoder 按固定偏移解析 EPC 字符串
type Decoder struct {
	layout Layout
}

// NewDecoder 创建 EPC 解析器。
// 有效期段按 YYMMDD 解释，长度固定 6 位，布局里声明的其他值一律纠正
func NewDecoder(layout Layout) *Decoder {
	if layout.ExpiryLength != 6 {
		layout.ExpiryLength = 6
	}
	return &Decoder{layout: layout}
}

// MinLength 一条可解析 EPC 的最小长度
func (d *Decoder) MinLength() int {
	return d.layout.PrefixLength + d.layout.ProductCodeLength + d.layout.ExpiryLength + d.layout.LotHashLength
}

// Decode 解析一条原始 EPC。
// 超出布局长度的尾部字符忽略，有效期按 20YY-MM-DD 解释并校验可信窗口
func (d *Decoder) Decode(raw string) (*Tag, error) {
	data := strings.TrimSpace(raw)
	if len(data) < d.MinLength() {
		return nil, fmt.Errorf("%w: got %d chars, need %d", ErrTooShort, len(data), d.MinLength())
	}

	offset := d.layout.PrefixLength
	productCode := data[offset : offset+d.layout.ProductCodeLength]
	offset += d.layout.ProductCodeLength
	expirySegment := data[offset : offset+d.layout.ExpiryLength]
	offset += d.layout.ExpiryLength
	lotHash := data[offset : offset+d.layout.LotHashLength]

	expiry, err := time.Parse("060102", expirySegment)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadExpiry, expirySegment)
	}
	if expiry.Before(d.layout.MinExpiry) || expiry.After(d.layout.MaxExpiry) {
		return nil, fmt.Errorf("%w: %s", ErrExpiryOutOfRange, expiry.Format("2006-01-02"))
	}

	return &Tag{
		Raw:         data,
		ProductCode: productCode,
		ExpiryDate:  expiry,
		LotHash:     lotHash,
	}, nil
}
