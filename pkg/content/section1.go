package content

import "github.com/lessonkit/inversetrig/pkg/store"

// Colors used for highlighted words in the prose.
const (
	SpotAngle = "#3b82f6"
	SpotRatio = "#ef4444"
)

// Widget names referenced by the lesson.
const (
	UnitCircleWidget    = "unit-circle"
	InverseLookupWidget = "inverse-lookup"
)

// InverseTrigSection1 returns the opening section of the inverse
// trigonometry lesson: why inverse functions are needed, the forward
// direction on a draggable unit circle, and the inverse direction with a
// sine slider.
func InverseTrigSection1() *Document {
	return &Document{
		ID:    "inverse-trig-section-1",
		Title: "Why Do We Need Inverse Functions?",
		Sections: []Section{
			Stack{Key: "layout-s1-title", MaxWidth: "2xl", Items: []Block{{
				ID: "block-s1-title", Padding: "lg",
				Body: Heading{ID: "h1-s1-title", Level: 1, Inlines: []Inline{
					T("Why Do We Need Inverse Functions?"),
				}},
			}}},

			Stack{Key: "layout-s1-intro", MaxWidth: "2xl", Items: []Block{{
				ID: "block-s1-intro", Padding: "md",
				Body: Paragraph{ID: "para-s1-intro", Inlines: []Inline{
					T("So far, you've learned that trigonometric functions like "),
					F(`\sin(\theta)`),
					T(" take an "),
					Spot{Color: SpotAngle, Text: "angle"},
					T(" as input and give us a "),
					Spot{Color: SpotRatio, Text: "ratio"},
					T(" as output. But what if we need to work backwards? What if we know the ratio and want to find the angle?"),
				}},
			}}},

			Stack{Key: "layout-s1-forward-title", MaxWidth: "2xl", Items: []Block{{
				ID: "block-s1-forward-title", Padding: "md",
				Body: Heading{ID: "h2-s1-forward", Level: 2, Inlines: []Inline{
					T("The Regular Way: From Angle to Ratio"),
				}},
			}}},

			Split{Key: "layout-s1-forward", Ratio: "1:1", Gap: "lg",
				Left: []Block{
					{
						ID: "block-s1-angle-description", Padding: "sm",
						Body: Paragraph{ID: "para-s1-angle-desc", Inlines: []Inline{
							T("Start with an angle "),
							ScrubberRef{Var: store.AngleValue},
							T(" radians."),
						}},
					},
					{
						ID: "block-s1-angle-explanation", Padding: "sm",
						Body: Paragraph{ID: "para-s1-angle-explain", Inlines: []Inline{
							T("Drag the point on the unit circle to change the angle. Watch how the red and green dashed lines show the "),
							F(`\sin(\theta)`),
							T(" and "),
							F(`\cos(\theta)`),
							T(" values."),
						}},
					},
				},
				Right: []Block{{
					ID: "block-s1-circle-viz", Padding: "sm",
					Body: WidgetRef{Name: UnitCircleWidget},
				}},
			},

			Stack{Key: "layout-s1-divider", MaxWidth: "xl", Items: []Block{{
				ID: "block-s1-divider", Padding: "sm", Body: Rule{},
			}}},

			Stack{Key: "layout-s1-problem-title", MaxWidth: "2xl", Items: []Block{{
				ID: "block-s1-problem-title", Padding: "md",
				Body: Heading{ID: "h2-s1-problem", Level: 2, Inlines: []Inline{
					T("The Problem: From Ratio Back to Angle"),
				}},
			}}},

			Stack{Key: "layout-s1-problem", MaxWidth: "2xl", Items: []Block{{
				ID: "block-s1-problem-text", Padding: "sm",
				Body: Paragraph{ID: "para-s1-problem", Inlines: []Inline{
					T("Now imagine a different scenario: You're given that "),
					F(`\sin(\theta) = 0.5`),
					T(", but you don't know what angle "),
					F(`\theta`),
					T(" is. How do you find it?"),
				}},
			}}},

			Stack{Key: "layout-s1-inverse-title", MaxWidth: "2xl", Items: []Block{{
				ID: "block-s1-inverse-title", Padding: "md",
				Body: Heading{ID: "h2-s1-inverse", Level: 2, Inlines: []Inline{
					T("The Solution: Inverse Trigonometric Functions"),
				}},
			}}},

			Split{Key: "layout-s1-inverse", Ratio: "1:1", Gap: "lg",
				Left: []Block{
					{
						ID: "block-s1-inverse-desc", Padding: "sm",
						Body: Paragraph{ID: "para-s1-inverse-desc", Inlines: []Inline{
							T("Drag the slider below to choose a sine value. The unit circle shows all the angles that produce this sine value."),
						}},
					},
					{
						ID: "block-s1-inverse-note", Padding: "sm",
						Body: Paragraph{ID: "para-s1-inverse-note", Inlines: []Inline{
							T("Notice something interesting: most sine values correspond to "),
							Strong{Text: "two different angles"},
							T(" in the range [0°, 360°)! This is why we need to restrict the domain of inverse sine to make it a true function."),
						}},
					},
				},
				Right: []Block{{
					ID: "block-s1-inverse-viz", Padding: "sm",
					Body: WidgetRef{Name: InverseLookupWidget},
				}},
			},

			Stack{Key: "layout-s1-closure", MaxWidth: "2xl", Items: []Block{{
				ID: "block-s1-closure", Padding: "md",
				Body: Paragraph{ID: "para-s1-closure", Inlines: []Inline{
					T(`This is exactly what inverse trigonometric functions do: they "undo" the regular trig functions. Instead of going from angle → ratio, they go from ratio → angle. In the next sections, we'll explore `),
					F(`\arcsin`),
					T(", "),
					F(`\arccos`),
					T(", and "),
					F(`\arctan`),
					T(" in depth."),
				}},
			}}},
		},
	}
}
