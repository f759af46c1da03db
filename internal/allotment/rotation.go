package allotment

// Policy 决定在多个同样符合条件的候选人中选择哪一个
type Policy interface {
	Allot(candidateIDs []int64) (int64, bool)
}

// RoundRobin 按调用次数轮转选择候选人
// 游标只增不减，且不会在两次请求之间重置，
// 这样即使候选人列表发生变化，选择也会在列表中持续轮转
type RoundRobin struct {
	cursor int
}

func NewRoundRobin() Policy {
	return &RoundRobin{}
}

func (p *RoundRobin) Allot(candidateIDs []int64) (int64, bool) {
	if len(candidateIDs) == 0 {
		return 0, false
	}

	pick := candidateIDs[p.cursor%len(candidateIDs)]
	p.cursor++

	return pick, true
}
