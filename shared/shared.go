package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"gearshare/shared/cache"
	"gearshare/shared/constant"
	"gearshare/shared/dto"
	"gearshare/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeySeparator = ":"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins the prefix and parts into a redis key.
func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + cacheKeySeparator + strings.Join(parts, cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a cache key from a list query, so every
// combination of pagination and filters gets its own entry.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	encodedArgs, err := json.Marshal(args)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode filter args for cache key")

		encodedArgs = []byte(constant.Empty)
	}

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		fmt.Sprintf("%x", where+string(encodedArgs)),
	)
}

// InvalidateCaches drops every cache entry under the given prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
