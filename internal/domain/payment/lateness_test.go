package payment

import "testing"

func TestClassify(t *testing.T) {
	cases := map[int]Bucket{
		-3:  BucketOnTime,
		0:   BucketOnTime,
		1:   BucketLate1to7,
		7:   BucketLate1to7,
		8:   BucketLate8to30,
		30:  BucketLate8to30,
		31:  BucketLate31to60,
		60:  BucketLate31to60,
		61:  BucketDefault,
		400: BucketDefault,
	}
	for days, want := range cases {
		if got := Classify(days); got != want {
			t.Fatalf("Classify(%d) = %s, want %s", days, got, want)
		}
	}
}

func TestEventBucket_OverpaymentIsNeverLate(t *testing.T) {
	e := Event{Kind: KindOverpayment, DaysLate: 45}
	if e.Bucket().IsLate() {
		t.Fatalf("overpayment classified late")
	}
	e.Kind = KindInstallment
	if e.Bucket() != BucketLate31to60 {
		t.Fatalf("bucket = %s", e.Bucket())
	}
}
