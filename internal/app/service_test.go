package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	service "github.com/lifebridge/lifebridge/internal/app"
	"github.com/lifebridge/lifebridge/internal/domain/matching"
	"github.com/lifebridge/lifebridge/internal/domain/model"
	"github.com/lifebridge/lifebridge/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
		})
	})

	Convey("Given a new service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(8),
			service.WithQueueSize(50_000),
			service.WithDedupeSize(25_000),
			service.WithWeights(matching.DefaultWeights()),
		)

		Convey("Then it should be created successfully", func() {
			So(svc, ShouldNotBeNil)
		})
	})
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New()
		// Ensure service is stopped after test
		defer svc.Stop()

		Convey("When starting the service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			err := svc.Start(ctx)

			Convey("Then it should start successfully", func() {
				So(err, ShouldBeNil)
			})

			Convey("And it should be marked as started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})
	})

	Convey("Given a service with invalid weights", t, func() {
		svc := service.New(
			service.WithWeights(matching.Weights{
				BloodType:   35,
				HLA:         0,
				Age:         10,
				WaitingTime: 15,
				Urgency:     10,
			}),
		)

		Convey("When starting the service", func() {
			err := svc.Start(context.Background())

			Convey("Then startup should fail", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, matching.ErrInvalidWeights), ShouldBeTrue)
			})
		})
	})
}

func TestService_Stop(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(2))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When stopping the service", func() {
			svc.Stop()

			Convey("Then it should no longer be started", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeFalse)
			})

			Convey("And stopping again should be safe", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})
}

func TestService_Register(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(1))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When registering a donor without an ID", func() {
			donor, err := svc.RegisterDonor(ctx, model.Donor{
				DateOfBirth: time.Date(1985, 3, 12, 0, 0, 0, 0, time.UTC),
				BloodType:   "A+",
				HlaType:     "A1;B8;DR3",
			})

			Convey("Then an ID and default status should be minted", func() {
				So(err, ShouldBeNil)
				So(donor.ID, ShouldNotBeEmpty)
				So(donor.Status, ShouldEqual, model.DonorAvailable)
			})

			Convey("And the donor should appear in the snapshot", func() {
				donors := svc.Donors(ctx)
				So(donors, ShouldHaveLength, 1)
				So(donors[0].ID, ShouldEqual, donor.ID)
			})
		})

		Convey("When registering a recipient with organ requests", func() {
			recipient, err := svc.RegisterRecipient(ctx, model.Recipient{
				DateOfBirth:  time.Date(1990, 7, 1, 0, 0, 0, 0, time.UTC),
				BloodType:    "A+",
				HlaType:      "A1;B8;DR3",
				UrgencyScore: 7,
				WaitingSince: time.Now().AddDate(0, -6, 0),
				Requests: []model.OrganRequest{
					{OrganType: model.OrganKidney, Requested: time.Now(), Priority: 8},
				},
			})

			Convey("Then IDs and statuses should be defaulted throughout", func() {
				So(err, ShouldBeNil)
				So(recipient.ID, ShouldNotBeEmpty)
				So(recipient.Status, ShouldEqual, model.RecipientWaiting)
				So(recipient.Requests[0].ID, ShouldNotBeEmpty)
				So(recipient.Requests[0].Status, ShouldEqual, model.RequestWaiting)
			})
		})

		Convey("When registering an organ", func() {
			organ, err := svc.RegisterOrgan(ctx, model.NewOrgan(
				"", "donor-1", model.OrganKidney, "A+", "A1;B8;DR3", time.Now(),
			))

			Convey("Then an ID should be minted and the organ listed", func() {
				So(err, ShouldBeNil)
				So(organ.ID, ShouldNotBeEmpty)
				So(organ.Status, ShouldEqual, model.OrganAvailable)
				So(svc.Organs(ctx), ShouldHaveLength, 1)
			})
		})

		Convey("When registering records that carry their own IDs", func() {
			donor, err := svc.RegisterDonor(ctx, model.Donor{
				ID:        "donor-fixed",
				BloodType: "O-",
				Status:    model.DonorInProcess,
			})

			Convey("Then the provided values should be preserved", func() {
				So(err, ShouldBeNil)
				So(donor.ID, ShouldEqual, "donor-fixed")
				So(donor.Status, ShouldEqual, model.DonorInProcess)
			})
		})
	})
}

func TestService_RequestMatchRun(t *testing.T) {
	Convey("Given a started service with an organ on file", t, func() {
		svc := service.New(service.WithWorkerCount(1))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		organ, err := svc.RegisterOrgan(ctx, model.NewOrgan(
			"", "donor-1", model.OrganKidney, "O-", "A1;B8;DR3", time.Now(),
		))
		So(err, ShouldBeNil)

		Convey("When requesting a run for an unknown organ", func() {
			_, _, err := svc.RequestMatchRun(ctx, "no-such-organ")

			Convey("Then a not-found error should be returned", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When requesting a run for the organ", func() {
			requestID, duplicate, err := svc.RequestMatchRun(ctx, organ.ID)

			Convey("Then the run should be accepted", func() {
				So(err, ShouldBeNil)
				So(duplicate, ShouldBeFalse)
				So(requestID, ShouldNotBeEmpty)
			})
		})

		Convey("When fetching matches before any run completed", func() {
			matches, err := svc.MatchesForOrgan(ctx, organ.ID)

			Convey("Then an empty list should be returned", func() {
				So(err, ShouldBeNil)
				So(matches, ShouldBeEmpty)
			})
		})

		Convey("When fetching matches for an unknown organ", func() {
			_, err := svc.MatchesForOrgan(ctx, "no-such-organ")

			Convey("Then a not-found error should be returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestService_GetStats(t *testing.T) {
	Convey("Given a service that has not been started", t, func() {
		svc := service.New(
			service.WithWorkerCount(3),
			service.WithQueueSize(100),
			service.WithDedupeSize(50),
		)

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then only static configuration should be reported", func() {
				So(stats["started"], ShouldBeFalse)
				So(stats["workerCount"], ShouldEqual, 3)
				So(stats["queueSize"], ShouldEqual, 100)
				So(stats["dedupeSize"], ShouldEqual, 50)
				So(stats, ShouldNotContainKey, "queueLength")
			})
		})
	})

	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(1))
		defer svc.Stop()

		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then runtime gauges should be present", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats, ShouldContainKey, "queueLength")
				So(stats, ShouldContainKey, "inFlightRuns")
				So(stats["donors"], ShouldEqual, 0)
				So(stats["recipients"], ShouldEqual, 0)
				So(stats["organs"], ShouldEqual, 0)
				So(stats["matches"], ShouldEqual, 0)
			})
		})
	})
}
