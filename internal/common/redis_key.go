package common

import "fmt"

func RedisKeyCommunity(communityID string) string {
	return fmt.Sprintf("community:%s", communityID)
}

func RedisKeyTrending() string {
	return "trending"
}
