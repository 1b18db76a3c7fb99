package payment

type Bucket string

const (
	BucketOnTime     Bucket = "on_time"
	BucketLate1to7   Bucket = "late_1_7"
	BucketLate8to30  Bucket = "late_8_30"
	BucketLate31to60 Bucket = "late_31_60"
	// BucketDefault is anything past 60 days.
	BucketDefault Bucket = "late_60_plus"
)

// Classify maps days late to a bucket.
func Classify(daysLate int) Bucket {
	switch {
	case daysLate <= 0:
		return BucketOnTime
	case daysLate <= 7:
		return BucketLate1to7
	case daysLate <= 30:
		return BucketLate8to30
	case daysLate <= 60:
		return BucketLate31to60
	default:
		return BucketDefault
	}
}

func (b Bucket) IsLate() bool { return b != BucketOnTime }
