package models

import "time"

// ItemKey 库存键：（产品代码、有效期、批号）三元组，批号为空串表示无批号
type ItemKey struct {
	ProductCode string
	ExpiryDate  time.Time
	LotNumber   string
}

// KeyOf 构造库存键，时间部分归一到当天零点
func KeyOf(productCode string, expiry time.Time, lot *string) ItemKey {
	k := ItemKey{ProductCode: productCode, ExpiryDate: DateOnly(expiry)}
	if lot != nil {
		k.LotNumber = *lot
	}
	return k
}

// String 键的字符串形式，用作缓存里的映射键
func (k ItemKey) String() string {
	return k.ProductCode + "|" + k.ExpiryDate.Format("2006-01-02") + "|" + k.LotNumber
}

// LotPtr 把键里的批号还原为可空指针
func (k ItemKey) LotPtr() *string {
	if k.LotNumber == "" {
		return nil
	}
	lot := k.LotNumber
	return &lot
}
