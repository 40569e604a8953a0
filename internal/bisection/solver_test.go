package bisection_test

import (
	"context"
	"math"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bisect/internal/bisection"
	"github.com/san-kum/bisect/internal/equation"
	"github.com/san-kum/bisect/internal/expr"
)

func compile(eq string) *expr.Function {
	f, err := expr.Compile(equation.Normalize(eq))
	Expect(err).NotTo(HaveOccurred())
	return f
}

type countingObserver struct {
	calls []int
}

func (o *countingObserver) OnIteration(i int, _ bisection.Iteration) {
	o.calls = append(o.calls, i)
}

var _ = Describe("Solve", func() {
	Context("reference problems", func() {
		It("finds the root of x^3 - x - 2 on [1, 2]", func() {
			res, err := bisection.Solve(compile("x^3 - x - 2"), 1, 2, 0.01)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Trace[0]).To(Equal(bisection.Iteration{A: 1, B: 2, C: 1.5, FC: -0.125}))
			Expect(res.Trace).To(HaveLen(6))
			Expect(res.Root).To(Equal(1.515625))
			Expect(res.Root).To(BeNumerically("~", 1.52, 0.01))
			Expect(res.Exact).To(BeFalse())
		})

		It("finds sqrt(2) as the root of x^2 - 2 on [0, 2]", func() {
			res, err := bisection.Solve(compile("x^2 - 2"), 0, 2, 0.0001)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Root).To(BeNumerically("~", 1.4142, 0.0002))
		})

		It("finds pi as the root of sin(x) on [3, 4]", func() {
			res, err := bisection.Solve(compile("sin(x)"), 3, 4, 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Root).To(BeNumerically("~", math.Pi, 0.02))
			Expect(res.Root).To(BeNumerically("~", 3.14, 0.01))
		})

		It("rejects x^2 + 1 on [-1, 1]", func() {
			_, err := bisection.Solve(compile("x^2 + 1"), -1, 1, 0.01)
			Expect(err).To(MatchError(bisection.ErrNoRootBracketed))

			var bErr *bisection.BracketError
			Expect(err).To(BeAssignableToTypeOf(bErr))
		})

		It("surfaces a domain error from sqrt at a negative endpoint", func() {
			_, err := bisection.Solve(compile("sqrt(x) - 0.5"), -1, 1, 0.01)
			Expect(err).To(MatchError(expr.ErrDomain))
		})
	})

	Context("trace properties", func() {
		problems := []struct {
			eq   string
			a, b float64
			tol  float64
		}{
			{"x^3 - x - 2", 1, 2, 0.01},
			{"x^2 - 2", 0, 2, 1e-6},
			{"cos(x) - x", 0, 1, 1e-5},
			{"exp(x) - 3", -0.3, 2.7, 1e-3},
			{"log(x) - 1", 1, 4, 1e-8},
		}

		for _, p := range problems {
			p := p

			It("terminates within tolerance for "+p.eq, func() {
				res, err := bisection.Solve(compile(p.eq), p.a, p.b, p.tol)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Trace).NotTo(BeEmpty())

				last, ok := res.Trace.Last()
				Expect(ok).To(BeTrue())
				Expect(last.HalfWidth() / 2).To(BeNumerically("<=", p.tol))
				Expect(last.C).To(Equal(res.Root))
			})

			It("nests and halves consecutive brackets for "+p.eq, func() {
				res, err := bisection.Solve(compile(p.eq), p.a, p.b, p.tol)
				Expect(err).NotTo(HaveOccurred())

				for i := 1; i < len(res.Trace); i++ {
					prev, cur := res.Trace[i-1], res.Trace[i]
					Expect(cur.A).To(BeNumerically(">=", prev.A))
					Expect(cur.B).To(BeNumerically("<=", prev.B))

					width := prev.B - prev.A
					Expect(cur.B - cur.A).To(BeNumerically("~", width/2, width*1e-12))
				}
			})

			It("keeps the root bracketed for "+p.eq, func() {
				f := compile(p.eq)
				res, err := bisection.Solve(f, p.a, p.b, p.tol)
				Expect(err).NotTo(HaveOccurred())

				for _, it := range res.Trace {
					fa, err := f.Eval(it.A)
					Expect(err).NotTo(HaveOccurred())
					fb, err := f.Eval(it.B)
					Expect(err).NotTo(HaveOccurred())
					Expect(fa * fb).To(BeNumerically("<", 0))
					Expect(it.C).To(Equal((it.A + it.B) / 2))
				}
			})

			It("evaluates f once per iteration for "+p.eq, func() {
				res, err := bisection.Solve(compile(p.eq), p.a, p.b, p.tol)
				Expect(err).NotTo(HaveOccurred())
				Expect(res.Evaluations).To(Equal(len(res.Trace) + 2))
			})
		}
	})

	Context("edge cases", func() {
		It("stops on an exact zero at the midpoint", func() {
			res, err := bisection.Solve(compile("x - 1.5"), 1, 2, 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Exact).To(BeTrue())
			Expect(res.Trace).To(HaveLen(1))
			Expect(res.Root).To(Equal(1.5))
		})

		It("rejects a root sitting exactly on an endpoint", func() {
			_, err := bisection.Solve(compile("x - 1"), 1, 2, 0.01)
			Expect(err).To(MatchError(bisection.ErrNoRootBracketed))
		})

		It("produces the same trace with swapped endpoints", func() {
			f := compile("x^3 - x - 2")
			forward, err := bisection.Solve(f, 1, 2, 0.01)
			Expect(err).NotTo(HaveOccurred())
			backward, err := bisection.Solve(f, 2, 1, 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(backward.Trace).To(Equal(forward.Trace))
		})

		It("returns the midpoint when the interval is already within tolerance", func() {
			res, err := bisection.Solve(compile("x - 1.005"), 1, 1.01, 0.01)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Trace).To(BeEmpty())
			Expect(res.Root).To(BeNumerically("~", 1.005, 1e-12))
			Expect(res.Evaluations).To(Equal(2))
		})

		DescribeTable("invalid tolerance",
			func(tol float64) {
				_, err := bisection.Solve(compile("x"), -1, 1, tol)
				Expect(err).To(MatchError(bisection.ErrInvalidTolerance))
			},
			Entry("zero", 0.0),
			Entry("negative", -0.01),
			Entry("NaN", math.NaN()),
			Entry("infinite", math.Inf(1)),
		)

		DescribeTable("invalid interval",
			func(a, b float64) {
				_, err := bisection.Solve(compile("x"), a, b, 0.01)
				Expect(err).To(MatchError(bisection.ErrInvalidInterval))
			},
			Entry("NaN endpoint", math.NaN(), 1.0),
			Entry("infinite endpoint", -1.0, math.Inf(1)),
		)

		It("terminates when the tolerance is below float resolution", func() {
			res, err := bisection.Solve(compile("x^3 - x - 2"), 1, 2, 1e-300)
			Expect(err).NotTo(HaveOccurred())
			Expect(len(res.Trace)).To(BeNumerically("<", 100))
			Expect(res.Root).To(BeNumerically("~", 1.5213797068045676, 1e-12))
		})

		It("treats NaN at an endpoint as not bracketed", func() {
			f := bisection.Infallible(func(x float64) float64 {
				if x < 0 {
					return math.NaN()
				}
				return x - 0.5
			})
			_, err := bisection.Solve(f, -1, 1, 0.01)
			Expect(err).To(MatchError(bisection.ErrNoRootBracketed))
		})

		It("returns no trace when f fails mid-run", func() {
			f := bisection.FuncOf(func(x float64) (float64, error) {
				if x > 0.7 && x < 0.8 {
					return 0, expr.ErrDomain
				}
				return x - 0.9, nil
			})
			res, err := bisection.Solve(f, 0.5, 1, 0.001)
			Expect(err).To(MatchError(expr.ErrDomain))
			Expect(res).To(BeNil())

			var evalErr *bisection.EvalError
			Expect(err).To(BeAssignableToTypeOf(evalErr))
		})
	})

	Context("solver", func() {
		It("notifies observers once per iteration", func() {
			obs := &countingObserver{}
			s := bisection.New()
			s.AddObserver(obs)

			res, err := s.Run(context.Background(), compile("x^2 - 2"), 0, 2, 1e-3)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.calls).To(HaveLen(len(res.Trace)))
			Expect(obs.calls[0]).To(Equal(0))
		})

		It("stops on a canceled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := bisection.New().Run(ctx, compile("x^2 - 2"), 0, 2, 1e-3)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res).To(BeNil())
		})

		It("gives identical traces for concurrent runs", func() {
			f := compile("cos(x) - x")
			want, err := bisection.Solve(f, 0, 1, 1e-9)
			Expect(err).NotTo(HaveOccurred())

			var wg sync.WaitGroup
			results := make([]*bisection.Result, 8)
			for i := range results {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					defer GinkgoRecover()
					r, err := bisection.Solve(f, 0, 1, 1e-9)
					Expect(err).NotTo(HaveOccurred())
					results[idx] = r
				}(i)
			}
			wg.Wait()

			for _, r := range results {
				Expect(r.Trace).To(Equal(want.Trace))
				Expect(r.Root).To(Equal(want.Root))
			}
		})
	})
})

var _ = Describe("Trace", func() {
	trace := bisection.Trace{
		{A: 1, B: 2, C: 1.5, FC: -0.125},
		{A: 1.5, B: 2, C: 1.75, FC: 1.609375},
	}

	It("exposes midpoints and residuals", func() {
		Expect(trace.Midpoints()).To(Equal([]float64{1.5, 1.75}))
		Expect(trace.Residuals()).To(Equal([]float64{0.125, 1.609375}))
		Expect(trace.Len()).To(Equal(2))
	})

	It("reports an empty trace has no last iteration", func() {
		_, ok := bisection.Trace{}.Last()
		Expect(ok).To(BeFalse())
	})
})
