package certificate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/pawpal/internal/application/service"
	"github.com/khoahotran/pawpal/internal/domain/certificate"
	"github.com/khoahotran/pawpal/internal/domain/dog"
	"github.com/khoahotran/pawpal/internal/testutil"
	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/logger"
)

type failingSaveRepo struct {
	*testutil.CertificateRepo
}

func (r failingSaveRepo) Save(context.Context, *certificate.Certificate) error {
	return errors.New("db down")
}

type CertificateUseCaseTestSuite struct {
	suite.Suite
	dog      *dog.Dog
	dogs     *testutil.DogRepo
	certs    *testutil.CertificateRepo
	uploader *testutil.Uploader
	events   *testutil.EventPublisher
	upload   *UploadCertificateUseCase
	crud     *CertificateUseCase
	process  *ProcessCertificateUseCase
}

func (s *CertificateUseCaseTestSuite) SetupTest() {
	log := logger.NewNop()
	s.dogs = testutil.NewDogRepo()
	s.dog = s.dogs.Add(&dog.Dog{ID: uuid.New(), OwnerID: uuid.New(), Name: "Miso"})
	s.certs = testutil.NewCertificateRepo()
	s.uploader = testutil.NewUploader()
	s.events = testutil.NewEventPublisher()
	s.upload = NewUploadCertificateUseCase(s.dogs, s.certs, s.uploader, s.events, log)
	s.crud = NewCertificateUseCase(s.dogs, s.certs, s.uploader, s.events, log)
	s.process = NewProcessCertificateUseCase(s.certs, s.uploader, log)
}

func (s *CertificateUseCaseTestSuite) uploadOne() *certificate.Certificate {
	c, err := s.upload.Execute(context.Background(), UploadCertificateInput{
		OwnerID:  s.dog.OwnerID,
		DogID:    s.dog.ID,
		Title:    "Puppy class",
		Issuer:   "Good Dog School",
		FileName: "cert.pdf",
		File:     bytes.NewBufferString("%PDF-1.4"),
	})
	s.Require().NoError(err)
	return c
}

func (s *CertificateUseCaseTestSuite) TestUpload_StoresPendingAndPublishes() {
	c := s.uploadOne()

	s.Equal(certificate.StatusPending, c.Status)
	key := certificate.StoragePublicID(s.dog.OwnerID, c.ID)
	s.Equal("https://cdn.test/"+key, c.FileURL)
	s.Equal([]byte("%PDF-1.4"), s.uploader.Uploaded[key])

	s.Require().Len(s.events.CertificateEvents, 1)
	s.Equal(service.EventCertificateUploaded, s.events.CertificateEvents[0].EventType)
	s.Equal(c.ID, s.events.CertificateEvents[0].CertificateID)
}

func (s *CertificateUseCaseTestSuite) TestUpload_RejectsForeignDogAndMissingTitle() {
	_, err := s.upload.Execute(context.Background(), UploadCertificateInput{
		OwnerID: uuid.New(), DogID: s.dog.ID, Title: "x", File: bytes.NewBufferString("x"),
	})
	s.ErrorIs(err, apperror.ErrNotFound)

	_, err = s.upload.Execute(context.Background(), UploadCertificateInput{
		OwnerID: s.dog.OwnerID, DogID: s.dog.ID, Title: "  ", File: bytes.NewBufferString("x"),
	})
	s.ErrorIs(err, apperror.ErrInvalidInput)
	s.Empty(s.uploader.Uploaded)
}

func (s *CertificateUseCaseTestSuite) TestUpload_DeletesFileWhenSaveFails() {
	uc := NewUploadCertificateUseCase(s.dogs, failingSaveRepo{s.certs}, s.uploader, s.events, logger.NewNop())

	_, err := uc.Execute(context.Background(), UploadCertificateInput{
		OwnerID: s.dog.OwnerID, DogID: s.dog.ID, Title: "Agility", File: bytes.NewBufferString("x"),
	})
	s.Error(err)
	s.Len(s.uploader.Deleted, 1)
	s.Empty(s.events.CertificateEvents)
}

func (s *CertificateUseCaseTestSuite) TestProcess_MarksReady() {
	c := s.uploadOne()

	s.Require().NoError(s.process.Execute(context.Background(), s.events.CertificateEvents[0]))

	got, err := s.crud.Get(context.Background(), c.ID, s.dog.OwnerID)
	s.Require().NoError(err)
	s.Equal(certificate.StatusReady, got.Status)
	s.Require().NotNil(got.ThumbnailURL)
	s.Equal("https://cdn.test/thumb/"+certificate.StoragePublicID(s.dog.OwnerID, c.ID), *got.ThumbnailURL)

	// a redelivered event is a no-op
	s.NoError(s.process.Execute(context.Background(), s.events.CertificateEvents[0]))
}

func (s *CertificateUseCaseTestSuite) TestProcess_MarksErrorWhenThumbnailFails() {
	c := s.uploadOne()
	s.uploader.ThumbErr = errors.New("bad asset")

	s.Require().NoError(s.process.Execute(context.Background(), s.events.CertificateEvents[0]))

	got, err := s.crud.Get(context.Background(), c.ID, s.dog.OwnerID)
	s.Require().NoError(err)
	s.Equal(certificate.StatusError, got.Status)
	s.Equal("bad asset", got.Metadata["processing_error"])
}

func (s *CertificateUseCaseTestSuite) TestProcess_SkipsMissingCertificate() {
	err := s.process.Execute(context.Background(), service.CertificateEventPayload{
		EventType:     service.EventCertificateUploaded,
		CertificateID: uuid.New(),
		OwnerID:       s.dog.OwnerID,
	})
	s.NoError(err)
}

func (s *CertificateUseCaseTestSuite) TestDelete_RemovesFileAndPublishes() {
	c := s.uploadOne()

	s.Require().NoError(s.crud.Delete(context.Background(), c.ID, s.dog.OwnerID))
	s.Equal([]string{certificate.StoragePublicID(s.dog.OwnerID, c.ID)}, s.uploader.Deleted)
	s.Require().Len(s.events.CertificateEvents, 2)
	s.Equal(service.EventCertificateDeleted, s.events.CertificateEvents[1].EventType)

	list, err := s.crud.List(context.Background(), s.dog.OwnerID, s.dog.ID)
	s.Require().NoError(err)
	s.Empty(list)
}

func TestCertificateUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(CertificateUseCaseTestSuite))
}

func TestDelete_UnknownCertificate(t *testing.T) {
	uc := NewCertificateUseCase(testutil.NewDogRepo(), testutil.NewCertificateRepo(), testutil.NewUploader(), testutil.NewEventPublisher(), logger.NewNop())
	err := uc.Delete(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
