package metrics

type nopCounter struct{}

func (nopCounter) Inc()        {}
func (nopCounter) Add(float64) {}

type nopGauge struct{}

func (nopGauge) Set(float64) {}
func (nopGauge) Inc()        {}
func (nopGauge) Dec()        {}
func (nopGauge) Add(float64) {}

type nopTimer struct{}

func (nopTimer) ObserveDuration() {}

func NopCounter() Counter { return nopCounter{} }
func NopGauge() Gauge     { return nopGauge{} }
func NopTimer() Timer     { return nopTimer{} }
