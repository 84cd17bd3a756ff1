package keylock

func Size(l *Locker) int {
	return l.size()
}
