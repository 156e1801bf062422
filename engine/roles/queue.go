package roles

// ForCount builds the role queue for a roster of the given size. The mix
// scales at 6/8/10/12 players; remaining seats are plain villagers.
func ForCount(count int) []ID {
	queue := []ID{Werewolf, Seer, Bodyguard}
	if count >= 6 {
		queue = append(queue, Witch)
	}
	if count >= 8 {
		queue = append(queue, Hunter, Werewolf)
	}
	if count >= 10 {
		queue = append(queue, CursedWerewolf)
	}
	if count >= 12 {
		queue = append(queue, Werewolf)
	}
	for len(queue) < count {
		queue = append(queue, Villager)
	}
	return queue[:count]
}
