package usecase

import (
	"fmt"
	"math/rand/v2"
)

var (
	nicknameAdjectives = []string{
		"amber", "brisk", "calm", "clever", "daring", "eager",
		"gentle", "keen", "lively", "quiet", "swift", "witty",
	}
	nicknameNouns = []string{
		"badger", "falcon", "heron", "lynx", "marten", "otter",
		"osprey", "puffin", "raven", "stoat", "swift", "wren",
	}
)

// GenerateNickname produces a random URL-safe handle such as "brisk_otter_4821".
// Collisions are possible; callers re-check uniqueness before persisting.
func GenerateNickname() string {
	adjective := nicknameAdjectives[rand.IntN(len(nicknameAdjectives))]
	noun := nicknameNouns[rand.IntN(len(nicknameNouns))]
	return fmt.Sprintf("%s_%s_%04d", adjective, noun, rand.IntN(10000))
}
