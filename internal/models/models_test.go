package models_test

import (
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/boscoh/modeldrop/internal/models"
)

// localMaxima counts interior points strictly above both neighbors.
func localMaxima(series []float64) int {
	count := 0
	for i := 1; i < len(series)-1; i++ {
		if series[i] > series[i-1] && series[i] > series[i+1] {
			count++
		}
	}
	return count
}

var _ = Describe("catalog", func() {
	It("lists models in sorted order", func() {
		names := models.Names()
		Expect(names).To(HaveLen(10))
		Expect(names).To(ContainElements("ecology", "epi", "goodwin", "keen", "fathers"))
		for i := 1; i < len(names); i++ {
			Expect(names[i] > names[i-1]).To(BeTrue())
		}
	})

	It("rejects unknown names", func() {
		_, err := models.Lookup("nope")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("nope"))
	})

	It("samples every declared function plot without a prior run", func() {
		for _, m := range models.All() {
			for _, p := range m.Plots {
				if p.Fn == "" {
					continue
				}
				points, err := m.FnCurve(p.Fn, p.XLims[0], p.XLims[1], 50)
				Expect(err).NotTo(HaveOccurred(), "%s: %s", m.Name, p.Fn)
				Expect(points).To(HaveLen(50), "%s: %s", m.Name, p.Fn)
			}
		}
	})

	It("runs every model with default parameters", func() {
		for _, m := range models.All() {
			Expect(m.Run()).To(Succeed(), m.Name)
			Expect(m.Solution().Len()).To(BeNumerically(">", 0), m.Name)
		}
	})
})

var _ = Describe("ecology", func() {
	It("produces sustained predator-prey oscillations", func() {
		m, err := models.Lookup("ecology")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Run()).To(Succeed())

		Expect(m.Times).To(HaveLen(1000))

		prey, ok := m.Trajectory("prey")
		Expect(ok).To(BeTrue())
		predator, ok := m.Trajectory("predator")
		Expect(ok).To(BeTrue())

		for i := range prey {
			Expect(prey[i]).To(BeNumerically(">", 0), "prey at %d", i)
			Expect(predator[i]).To(BeNumerically(">", 0), "predator at %d", i)
		}

		Expect(localMaxima(prey)).To(BeNumerically(">=", 2))
		Expect(localMaxima(predator)).To(BeNumerically(">=", 2))
	})

	It("responds to parameter edits on rerun", func() {
		m, err := models.Lookup("ecology")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.SetParam("initialPrey", 15)).To(Succeed())
		Expect(m.Run()).To(Succeed())

		prey, _ := m.Trajectory("prey")
		Expect(prey[0]).To(Equal(15.0))
	})
})

var _ = Describe("epi", func() {
	It("conserves the total population through the epidemic", func() {
		m, err := models.Lookup("epi")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Run()).To(Succeed())

		s, _ := m.Trajectory("susceptible")
		i, _ := m.Trajectory("infectious")
		r, _ := m.Trajectory("recovered")

		for k := range s {
			total := s[k] + i[k] + r[k]
			Expect(total).To(BeNumerically("~", 50000, 1e-3), "total at %d", k)
		}
	})

	It("burns through an epidemic and out again", func() {
		m, err := models.Lookup("epi")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Run()).To(Succeed())

		i, _ := m.Trajectory("infectious")
		peak := 0.0
		for _, v := range i {
			peak = math.Max(peak, v)
		}
		Expect(peak).To(BeNumerically(">", i[0]))
		Expect(i[len(i)-1]).To(BeNumerically("<", peak/10))
	})

	It("derives the recovery rate from the infectious period", func() {
		m, err := models.Lookup("epi")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.SetParam("infectiousPeriod", 20)).To(Succeed())
		Expect(m.Run()).To(Succeed())
		Expect(m.Params.Get("recoverRate")).To(BeNumerically("~", 0.05, 1e-12))
	})
})

var _ = Describe("goodwin", func() {
	It("cycles the wage share without external shocks", func() {
		m, err := models.Lookup("goodwin")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Run()).To(Succeed())

		wageShare, ok := m.Trajectory("wageShare")
		Expect(ok).To(BeTrue())
		Expect(localMaxima(wageShare)).To(BeNumerically(">=", 1))

		profitShare, _ := m.Trajectory("profitShare")
		for i := range wageShare {
			Expect(wageShare[i] + profitShare[i]).To(BeNumerically("~", 1, 1e-9))
		}
	})
})

var _ = Describe("fathers", func() {
	It("tracks cohort totals that sum to the cohort populations", func() {
		m, err := models.Lookup("fathers")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Run()).To(Succeed())

		total, ok := m.Trajectory("radical_total")
		Expect(ok).To(BeTrue())

		nAge := int(m.Params.Get("nAge"))
		sum := 0.0
		for age := 0; age < nAge; age++ {
			series, ok := m.Trajectory(cohortKey("radical", age))
			Expect(ok).To(BeTrue())
			sum += series[len(series)-1]
		}
		Expect(total[len(total)-1]).To(BeNumerically("~", sum, 1e-9))
	})

	It("rebuilds its cohorts when nAge changes", func() {
		m, err := models.Lookup("fathers")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.SetParam("nAge", 10)).To(Succeed())
		Expect(m.Run()).To(Succeed())

		_, ok := m.Trajectory(cohortKey("naive", 9))
		Expect(ok).To(BeTrue())
		_, ok = m.Trajectory(cohortKey("naive", 24))
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("turchin", func() {
	It("rebuilds the capacity curve when its parameters change", func() {
		m, err := models.Lookup("turchin")
		Expect(err).NotTo(HaveOccurred())

		// construction-time registration reflects the defaults
		y, err := m.EvalFn("carryCapacityFromStateRevenue", 1e9)
		Expect(err).NotTo(HaveOccurred())
		Expect(y).To(BeNumerically("~", 4, 1e-6))

		Expect(m.SetParam("carryCapacityDiff", 5)).To(Succeed())
		Expect(m.Run()).To(Succeed())

		y, err = m.EvalFn("carryCapacityFromStateRevenue", 1e9)
		Expect(err).NotTo(HaveOccurred())
		Expect(y).To(BeNumerically("~", 6, 1e-6))
	})
})

var _ = Describe("divergence", func() {
	It("truncates instead of failing when growth is unbounded", func() {
		m, err := models.Lookup("growth")
		Expect(err).NotTo(HaveOccurred())
		Expect(m.SetParam("carryingCapacity", 0)).To(Succeed())

		Expect(m.Run()).To(Succeed())
		Expect(m.Truncated()).To(BeTrue())

		bounded, _ := m.Trajectory("boundedPopulation")
		Expect(math.IsNaN(bounded[len(bounded)-1])).To(BeTrue())
		Expect(len(m.SolutionTimes())).To(Equal(len(bounded)))
	})
})

func cohortKey(group string, age int) string {
	return fmt.Sprintf("%s_%d", group, age)
}
