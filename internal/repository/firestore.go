package repository

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"courseeditor/internal/firebase"
	"courseeditor/internal/models"
	"courseeditor/internal/qerrors"

	"cloud.google.com/go/firestore"
	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type firestoreRepository struct {
	firestoreClient *firestore.Client
	cancelListener  context.CancelFunc

	coursesLock *sync.RWMutex
	courses     map[string]*firestoreCourse
}

// firestoreCourse is a catalog document: the course plus its position in the catalog.
type firestoreCourse struct {
	models.Course `mapstructure:",squash"`
	Position      int `mapstructure:"position"`
}

// NewFirestoreRepository creates a Repository with Firestore as the database. Catalog reads are
// served from a cache kept in sync by a snapshot listener on the courses collection.
func NewFirestoreRepository(ctx context.Context, credentialsFile string) (Repository, error) {
	client, err := firebase.NewFirestoreClient(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}

	listenerCtx, cancel := context.WithCancel(context.Background())
	r := &firestoreRepository{
		firestoreClient: client,
		cancelListener:  cancel,
		coursesLock:     &sync.RWMutex{},
		courses:         make(map[string]*firestoreCourse),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	log.Println("⏳ Starting courses collection listener...")
	go func() {
		err := r.startCoursesListener(listenerCtx, &wg)
		if err != nil {
			log.Fatalf("courses collection listener error: %v\n", err)
		}
	}()
	wg.Wait()

	return r, nil
}

func (r *firestoreRepository) SaveCourses(ctx context.Context, courses []*models.Course) error {
	batch := r.firestoreClient.Batch()
	collection := r.firestoreClient.Collection(models.FirestoreCoursesCollection)

	kept := make(map[string]bool, len(courses))
	cache := make(map[string]*firestoreCourse, len(courses))
	for i, c := range dedupeCourses(courses) {
		kept[c.CourseID] = true
		cache[c.CourseID] = &firestoreCourse{Course: *c.Clone(), Position: i}

		doc := courseDoc(c)
		doc["position"] = i
		batch.Set(collection.Doc(c.CourseID), doc)
	}

	// Courses missing from the new snapshot are removed.
	stale := 0
	r.coursesLock.RLock()
	for id := range r.courses {
		if !kept[id] {
			batch.Delete(collection.Doc(id))
			stale++
		}
	}
	r.coursesLock.RUnlock()

	if len(kept) == 0 && stale == 0 {
		return nil
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("error saving courses: %v", err)
	}

	// The listener will deliver the same state; reads right after a save must not wait for it.
	r.coursesLock.Lock()
	r.courses = cache
	r.coursesLock.Unlock()

	return nil
}

func (r *firestoreRepository) ListCourses(_ context.Context) ([]*models.Course, error) {
	r.coursesLock.RLock()
	defer r.coursesLock.RUnlock()

	docs := make([]*firestoreCourse, 0, len(r.courses))
	for _, c := range r.courses {
		docs = append(docs, c)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Position < docs[j].Position })

	courses := make([]*models.Course, 0, len(docs))
	for _, d := range docs {
		courses = append(courses, d.Course.Clone())
	}
	return courses, nil
}

// GetCourse gets the Course from the courses map corresponding to the provided course ID.
func (r *firestoreRepository) GetCourse(_ context.Context, courseID string) (*models.Course, error) {
	r.coursesLock.RLock()
	defer r.coursesLock.RUnlock()

	if val, ok := r.courses[courseID]; ok {
		return val.Course.Clone(), nil
	}
	return nil, qerrors.CourseNotFoundError
}

func (r *firestoreRepository) SaveSelected(ctx context.Context, sessionID string, course *models.Course) error {
	doc := courseDoc(course)
	doc["updatedAt"] = time.Now()

	_, err := r.firestoreClient.Collection(models.FirestoreSelectedCoursesCollection).Doc(sessionID).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("error saving selected course: %v", err)
	}
	return nil
}

func (r *firestoreRepository) GetSelected(ctx context.Context, sessionID string) (*models.Course, error) {
	snap, err := r.firestoreClient.Collection(models.FirestoreSelectedCoursesCollection).Doc(sessionID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, qerrors.NoSelectionError
	}
	if err != nil {
		return nil, err
	}

	var c models.Course
	if err := mapstructure.Decode(snap.Data(), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *firestoreRepository) Close() error {
	r.cancelListener()
	return r.firestoreClient.Close()
}

// Helpers

// dedupeCourses keeps the first position of each identifier and the last value written for it.
func dedupeCourses(courses []*models.Course) []*models.Course {
	index := make(map[string]int, len(courses))
	out := make([]*models.Course, 0, len(courses))
	for _, c := range courses {
		if i, ok := index[c.CourseID]; ok {
			out[i] = c
			continue
		}
		index[c.CourseID] = len(out)
		out = append(out, c)
	}
	return out
}

func courseDoc(c *models.Course) map[string]interface{} {
	students := make([]map[string]interface{}, 0, len(c.Students))
	for _, s := range c.Students {
		students = append(students, map[string]interface{}{"name": s.Name})
	}

	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := map[string]interface{}{
		"courseId":       c.CourseID,
		"instructorName": c.InstructorName,
		"courseName":     c.CourseName,
		"tags":           tags,
	}
	if c.Students != nil {
		doc["students"] = students
	}
	return doc
}

func (r *firestoreRepository) startCoursesListener(ctx context.Context, wg *sync.WaitGroup) error {
	it := r.firestoreClient.Collection(models.FirestoreCoursesCollection).Snapshots(ctx)
	defer it.Stop()
	var doOnce sync.Once

	for {
		snap, err := it.Next()
		// Canceled is returned once Close has been called; DeadlineExceeded when ctx times out.
		if status.Code(err) == codes.Canceled || status.Code(err) == codes.DeadlineExceeded {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Snapshots.Next: %v", err)
		}
		if snap == nil {
			continue
		}

		courses := make(map[string]*firestoreCourse)
		for {
			doc, err := snap.Documents.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return fmt.Errorf("Documents.Next: %v", err)
			}

			var course firestoreCourse
			if err := mapstructure.Decode(doc.Data(), &course); err != nil {
				glog.Warningf("skipping malformed course document %s: %v\n", doc.Ref.ID, err)
				continue
			}
			course.CourseID = doc.Ref.ID
			courses[doc.Ref.ID] = &course
		}

		r.coursesLock.Lock()
		r.courses = courses
		r.coursesLock.Unlock()

		doOnce.Do(func() {
			log.Println("✅ Started courses collection listener.")
			wg.Done()
		})
	}
}
