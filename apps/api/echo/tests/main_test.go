package tests

import (
	"os"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/enrollment"
	"github.com/trezcool/shule/core/hierarchy"
	"github.com/trezcool/shule/core/reentry"
	"github.com/trezcool/shule/core/rtp"
	"github.com/trezcool/shule/core/tvet"
	"github.com/trezcool/shule/core/wash"
	dummydb "github.com/trezcool/shule/storage/database/dummy"
	testutil "github.com/trezcool/shule/tests"
)

var (
	db  *dummydb.DB
	app echoapi.Server
)

func TestMain(m *testing.M) {
	var err error
	if db, err = dummydb.Open(); err != nil {
		os.Exit(1)
	}

	conf := testutil.NewConfig()
	logger := testutil.NopLogger{}

	hierSvc := hierarchy.NewService(dummydb.NewHierarchyRepository(db))
	enrolSvc := enrollment.NewService(dummydb.NewEnrollmentRepository(db), logger)
	attSvc := attendance.NewService(dummydb.NewAttendanceRepository(db), logger)
	dashSvc := dashboard.NewService(hierSvc, enrolSvc, attSvc, dummydb.NewActivityRepository(db), logger, conf)
	reentrySvc := reentry.NewService(dummydb.NewReentryRepository(db), logger, conf)
	rtpSvc := rtp.NewService(dummydb.NewRTPRepository(db), logger, conf)
	tvetSvc := tvet.NewService(dummydb.NewTVETRepository(db), logger, conf)
	washSvc := wash.NewService(dummydb.NewWashRepository(db), logger, conf)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	app = echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:           conf,
			Logger:         logger,
			DashboardSvc:   dashSvc,
			ReentrySvc:     reentrySvc,
			RTPSvc:         rtpSvc,
			TVETSvc:        tvetSvc,
			WashSvc:        washSvc,
			Validate:       validate,
			Translator:     translator,
			DisableReqLogs: true,
		},
	)

	os.Exit(m.Run())
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}
