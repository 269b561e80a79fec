package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/pie-rfid/inventory-next/internal/cache"
	"github.com/pie-rfid/inventory-next/internal/constants"
	"github.com/pie-rfid/inventory-next/internal/logger"
	"github.com/pie-rfid/inventory-next/internal/models"
	"github.com/pie-rfid/inventory-next/internal/repository"
)

// LotHashService 批号哈希业务服务：原始批号与 EPC 内 9 位哈希段的双向映射
type LotHashService struct {
	repo        repository.LotHashRepository
	store       cache.Store
	cacheTTL    time.Duration
	hashLength  int
	maxAttempts int
}

// NewLotHashService 创建批号哈希服务
func NewLotHashService(repo repository.LotHashRepository, store cache.Store, cacheTTL time.Duration, hashLength, maxAttempts int) *LotHashService {
	if hashLength <= 0 {
		hashLength = constants.DefaultLotHashLength
	}
	if maxAttempts <= 0 {
		maxAttempts = constants.DefaultHashMaxAttempts
	}
	return &LotHashService{
		repo:        repo,
		store:       store,
		cacheTTL:    cacheTTL,
		hashLength:  hashLength,
		maxAttempts: maxAttempts,
	}
}

// hashCandidate 生成第 attempt 个候选哈希码
func (s *LotHashService) hashCandidate(originalCode string, attempt int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", originalCode, attempt)))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:s.hashLength])
}

// HashLot 获取或生成原始批号的哈希码。
// 候选码与已有映射冲突时换盐重试，直到尝试次数耗尽
func (s *LotHashService) HashLot(ctx context.Context, originalCode string) (string, error) {
	existing, err := s.repo.GetByOriginal(originalCode)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.HashedCode, nil
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		candidate := s.hashCandidate(originalCode, attempt)
		occupied, err := s.repo.GetByHashed(candidate)
		if err != nil {
			return "", err
		}
		if occupied != nil {
			if occupied.OriginalCode == originalCode {
				return candidate, nil
			}
			continue
		}
		entry := &models.LotHashEntry{OriginalCode: originalCode, HashedCode: candidate}
		if err := s.repo.Create(entry); err != nil {
			// 并发下可能被别的请求抢先占用，重查一轮
			logger.Warnw("lot_hash_insert_conflict", "original_code", originalCode, "candidate", candidate, "error", err)
			continue
		}
		s.invalidateCache(ctx)
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %s after %d attempts", ErrHashSpaceExhausted, originalCode, s.maxAttempts)
}

// ResolveHashes 批量反查哈希码对应的原始批号。
// 优先走全量映射缓存，缓存缺失时落库重建
func (s *LotHashService) ResolveHashes(ctx context.Context, hashedCodes []string) (map[string]string, error) {
	if len(hashedCodes) == 0 {
		return map[string]string{}, nil
	}

	full, err := s.fullMap(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(hashedCodes))
	var missing []string
	for _, code := range hashedCodes {
		if original, ok := full[code]; ok {
			result[code] = original
		} else {
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		// 缓存建好之后新增的映射不在快照里，补查一次
		fresh, err := s.repo.MapByHashedCodes(missing)
		if err != nil {
			return nil, err
		}
		for code, original := range fresh {
			result[code] = original
		}
	}
	return result, nil
}

func (s *LotHashService) fullMap(ctx context.Context) (map[string]string, error) {
	if s.store != nil {
		cached := map[string]string{}
		hit, err := s.store.GetJSON(ctx, constants.CacheKeyLotHashMap, &cached)
		if err != nil {
			logger.Warnw("lot_hash_cache_read_failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	entries, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}
	full := make(map[string]string, len(entries))
	for _, entry := range entries {
		full[entry.HashedCode] = entry.OriginalCode
	}
	if s.store != nil {
		if err := s.store.SetJSON(ctx, constants.CacheKeyLotHashMap, full, s.cacheTTL); err != nil {
			logger.Warnw("lot_hash_cache_write_failed", "error", err)
		}
	}
	return full, nil
}

func (s *LotHashService) invalidateCache(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Del(ctx, constants.CacheKeyLotHashMap); err != nil {
		logger.Warnw("lot_hash_cache_invalidate_failed", "error", err)
	}
}
